// Package mcptools exposes the assistant's two modes as MCP tools.
package mcptools

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/georgesriver/spydus-assistant/internal/service"
)

// Tool names.
const (
	GenerateToolName = "generate_catalogue_record"
	AskToolName      = "ask_cataloguing_expert"
)

// GenerateInput is the argument of the generate tool.
type GenerateInput struct {
	ItemDetails string `json:"item_details" jsonschema:"free-text details of the library item: title, author, publisher, ISBN, subjects"`
}

// AskInput is the argument of the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"a question about Spydus cataloguing, item maintenance or MARC21"`
}

// TextOutput is the structured result of both tools.
type TextOutput struct {
	Text string `json:"text"`
}

// Submitter is the part of *service.Cataloguer the tools use.
type Submitter interface {
	Submit(ctx context.Context, mode service.Mode, input string) (string, error)
}

// New builds an MCP server with both tools registered.
func New(s Submitter, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "spydus-cataloguing-assistant",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        GenerateToolName,
		Description: "Draft a MARC21 catalogue record for a library item.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in GenerateInput) (*mcp.CallToolResult, TextOutput, error) {
		return submit(ctx, s, service.GenerateRecord, in.ItemDetails)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        AskToolName,
		Description: "Ask an expert Spydus cataloguer a question.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, TextOutput, error) {
		return submit(ctx, s, service.AskExpert, in.Question)
	})

	return server
}

// submit runs mode and reports failures as tool errors carrying the mode's
// fixed message.
func submit(ctx context.Context, s Submitter, mode service.Mode, input string) (*mcp.CallToolResult, TextOutput, error) {
	text, err := s.Submit(ctx, mode, input)
	if err != nil {
		return nil, TextOutput{}, errors.New(mode.Message(err))
	}
	return nil, TextOutput{Text: text}, nil
}

// Handler serves server over streamable HTTP.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
