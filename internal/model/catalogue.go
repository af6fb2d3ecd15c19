package model

// GenerateRequest is the body of POST /api/generate
type GenerateRequest struct {
	ItemDetails string `json:"item_details"`
}

// AskRequest is the body of POST /api/ask
type AskRequest struct {
	Question string `json:"question"`
}

// TextResponse carries generated text, or a fixed user-facing error message.
// Text is always present: an empty string is a valid result.
type TextResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// ExportRequest is the question/answer pair sent to the export endpoints
type ExportRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
