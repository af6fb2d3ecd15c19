// Package service turns user input into prompts and runs them through the
// generation client, one parametrised operation shared by both modes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrEmptyInput is returned when the submitted text is empty or whitespace.
// No request is sent in that case.
var ErrEmptyInput = errors.New("input is empty")

// Generator returns generated text for a prompt. *genclient.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Mode describes one use of the assistant: how its prompt is built and which
// fixed messages the user sees when something goes wrong.
type Mode struct {
	Name              string
	Prompt            func(input string) string
	EmptyInputMessage string
	FailureMessage    string
}

// GenerateRecord drafts a MARC21 record from item details.
var GenerateRecord = Mode{
	Name:              "generate",
	Prompt:            CataloguePrompt,
	EmptyInputMessage: "Please enter some item details to get started.",
	FailureMessage:    "An error occurred while generating the catalogue record. Please try again.",
}

// AskExpert answers a free-form cataloguing question.
var AskExpert = Mode{
	Name:              "ask",
	Prompt:            AskPrompt,
	EmptyInputMessage: "Please enter a question to get started.",
	FailureMessage:    "An error occurred while getting the answer. Please try again.",
}

// Message maps an error from Submit to the text shown to the user. Details
// such as status codes or attempt counts are never exposed.
func (m Mode) Message(err error) string {
	if errors.Is(err, ErrEmptyInput) {
		return m.EmptyInputMessage
	}
	return m.FailureMessage
}

// Cataloguer runs both modes against a single Generator.
type Cataloguer struct {
	gen Generator
	log *slog.Logger
}

// NewCataloguer creates a Cataloguer. A nil logger falls back to slog.Default().
func NewCataloguer(gen Generator, log *slog.Logger) *Cataloguer {
	if log == nil {
		log = slog.Default()
	}
	return &Cataloguer{gen: gen, log: log}
}

// Submit validates input, builds the mode's prompt and returns the generated
// text. A whitespace-only input fails with ErrEmptyInput before any network
// activity.
func (c *Cataloguer) Submit(ctx context.Context, mode Mode, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrEmptyInput
	}

	c.log.Info("submitting prompt", "mode", mode.Name, "input_len", len(input))

	text, err := c.gen.Generate(ctx, mode.Prompt(input))
	if err != nil {
		c.log.Error("generation failed", "mode", mode.Name, "error", err)
		return "", fmt.Errorf("%s: %w", mode.Name, err)
	}
	return text, nil
}

// GenerateRecord drafts a catalogue record for itemDetails.
func (c *Cataloguer) GenerateRecord(ctx context.Context, itemDetails string) (string, error) {
	return c.Submit(ctx, GenerateRecord, itemDetails)
}

// Ask answers question.
func (c *Cataloguer) Ask(ctx context.Context, question string) (string, error) {
	return c.Submit(ctx, AskExpert, question)
}
