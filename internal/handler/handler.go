package handler

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/georgesriver/spydus-assistant/internal/export"
	"github.com/georgesriver/spydus-assistant/internal/model"
	"github.com/georgesriver/spydus-assistant/internal/render"
	"github.com/georgesriver/spydus-assistant/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Tabs of the page.
const (
	TabGenerate = "generate"
	TabAsk      = "ask"
)

var suggestedQuestions = []string{
	"What is the process for creating a new record from a template?",
	"How do I handle non-book materials like a Digital Tool Library item?",
	"Explain how to use the 'Select/Change' feature to modify multiple records at once.",
}

// Submitter runs a prompt mode. *service.Cataloguer satisfies it.
type Submitter interface {
	Submit(ctx context.Context, mode service.Mode, input string) (string, error)
}

// Handler holds the dependencies of the HTTP handlers
type Handler struct {
	cataloguer Submitter
	log        *slog.Logger
	now        func() time.Time
}

// NewHandler creates a Handler. A nil logger falls back to slog.Default().
func NewHandler(c Submitter, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		cataloguer: c,
		log:        log,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock used for export dates (for testing).
func (h *Handler) SetNowFunc(fn func() time.Time) { h.now = fn }

// pageView is the state rendered by templates/index.html.
type pageView struct {
	Tab                string
	ItemInput          string
	CatalogueOutput    string
	AskInput           string
	AskOutput          string
	AskHTML            template.HTML
	AskAnswered        bool
	SuggestedQuestions []string
}

func (h *Handler) renderPage(w http.ResponseWriter, view pageView) {
	if view.Tab != TabAsk {
		view.Tab = TabGenerate
	}
	view.SuggestedQuestions = suggestedQuestions

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, view); err != nil {
		h.log.Error("failed to render page", "error", err)
	}
}

// HandleIndex renders the page with the tab chosen by ?tab=
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, pageView{Tab: r.URL.Query().Get("tab")})
}

// HandleGenerateForm handles the Generate Record form
func (h *Handler) HandleGenerateForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	view := pageView{Tab: TabGenerate, ItemInput: r.PostFormValue("item_details")}

	text, err := h.cataloguer.Submit(r.Context(), service.GenerateRecord, view.ItemInput)
	if err != nil {
		view.CatalogueOutput = service.GenerateRecord.Message(err)
	} else {
		view.CatalogueOutput = text
	}

	h.renderPage(w, view)
}

// HandleAskForm handles the Ask the Expert form
func (h *Handler) HandleAskForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	view := pageView{Tab: TabAsk, AskInput: r.PostFormValue("question")}

	text, err := h.cataloguer.Submit(r.Context(), service.AskExpert, view.AskInput)
	if err != nil {
		view.AskOutput = service.AskExpert.Message(err)
	} else {
		view.AskOutput = text
		view.AskAnswered = true
	}

	html, err := render.Markdown(view.AskOutput)
	if err != nil {
		h.log.Error("failed to render answer", "error", err)
		html = template.HTML(template.HTMLEscapeString(view.AskOutput)) //nolint:gosec // escaped
	}
	view.AskHTML = html

	h.renderPage(w, view)
}

// HandleDownload returns the Q&A as a markdown attachment. Empty input is a no-op.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	h.writeMarkdown(w, r.PostFormValue("question"), r.PostFormValue("answer"))
}

// HandlePrint returns the printable Q&A document. Empty input is a no-op.
func (h *Handler) HandlePrint(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	doc, err := export.PrintHTML(r.PostFormValue("question"), r.PostFormValue("answer"), h.now())
	if errors.Is(err, export.ErrEmpty) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.log.Error("failed to render print view", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(doc)); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeMarkdown(w http.ResponseWriter, question, answer string) {
	now := h.now()
	content, ok := export.Markdown(question, answer, now)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(now)+`"`)
	if _, err := w.Write([]byte(content)); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

// HandleInfo returns information about the service
func (h *Handler) HandleInfo(w http.ResponseWriter, _ *http.Request) {
	response := map[string]any{
		"service": "Spydus Cataloguing Assistant",
		"endpoints": map[string]any{
			"generate": map[string]any{
				"path":        "/api/generate",
				"method":      "POST",
				"description": "Draft a MARC21 catalogue record",
				"example":     model.GenerateRequest{ItemDetails: "Title: Researching and writing history. Author: D. P Dymond."},
			},
			"ask": map[string]any{
				"path":        "/api/ask",
				"method":      "POST",
				"description": "Ask a Spydus cataloguing question",
				"example":     model.AskRequest{Question: "How do I merge duplicate bibliographic records?"},
			},
			"export": map[string]any{
				"path":        "/api/ask/export",
				"method":      "POST",
				"description": "Download a question and answer as markdown",
			},
			"mcp": map[string]any{
				"path":        "/mcp",
				"description": "MCP streamable HTTP endpoint",
			},
			"health": map[string]any{
				"path":   "/health",
				"method": "GET",
			},
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleHealth reports that the server is up
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

// HandleGenerate is the JSON variant of the Generate Record form
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("error parsing JSON", "error", err)
		h.writeJSON(w, http.StatusBadRequest, model.TextResponse{Error: "Invalid JSON format"})
		return
	}
	h.submitJSON(w, r, service.GenerateRecord, req.ItemDetails)
}

// HandleAsk is the JSON variant of the Ask the Expert form
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req model.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("error parsing JSON", "error", err)
		h.writeJSON(w, http.StatusBadRequest, model.TextResponse{Error: "Invalid JSON format"})
		return
	}
	h.submitJSON(w, r, service.AskExpert, req.Question)
}

// HandleExport returns a JSON question/answer pair as a markdown attachment
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var req model.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("error parsing JSON", "error", err)
		h.writeJSON(w, http.StatusBadRequest, model.TextResponse{Error: "Invalid JSON format"})
		return
	}
	h.writeMarkdown(w, req.Question, req.Answer)
}

func (h *Handler) submitJSON(w http.ResponseWriter, r *http.Request, mode service.Mode, input string) {
	text, err := h.cataloguer.Submit(r.Context(), mode, input)
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, model.TextResponse{Text: text})
	case errors.Is(err, service.ErrEmptyInput):
		h.writeJSON(w, http.StatusBadRequest, model.TextResponse{Error: mode.Message(err)})
	default:
		h.writeJSON(w, http.StatusBadGateway, model.TextResponse{Error: mode.Message(err)})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}
