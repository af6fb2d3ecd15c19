package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/georgesriver/spydus-assistant/internal/config"
	"github.com/georgesriver/spydus-assistant/internal/export"
	"github.com/georgesriver/spydus-assistant/internal/handler"
	"github.com/georgesriver/spydus-assistant/internal/mcptools"
	"github.com/georgesriver/spydus-assistant/internal/server"
	"github.com/georgesriver/spydus-assistant/internal/service"
)

const version = "0.1.0"

// app carries what PersistentPreRunE resolves for the subcommands.
type app struct {
	cfg config.Config
	log *slog.Logger

	addr    string
	model   string
	backend string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "spydus-assistant",
		Short:         "Draft Spydus catalogue records and answer cataloguing questions with Gemini",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.addr, "addr", "", "listen address (overrides ADDR)")
	flags.StringVar(&a.model, "model", "", "Gemini model (overrides GEMINI_MODEL)")
	flags.StringVar(&a.backend, "backend", "", "rest, genai or adk (overrides GEMINI_BACKEND)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the web page, JSON API and MCP endpoint",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.serve(cmd.Context())
			},
		},
		a.generateCmd(),
		a.askCmd(),
	)

	return root
}

// load reads the environment, applies flag overrides and installs the logger.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = a.addr
	}
	if flags.Changed("model") {
		cfg.Model = a.model
	}
	if flags.Changed("backend") {
		cfg.Backend = strings.ToLower(a.backend)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(a.log)
	return nil
}

func (a *app) serve(ctx context.Context) error {
	srv, err := server.NewServer(ctx, a.cfg, a.log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	h := handler.NewHandler(srv.Cataloguer, a.log)
	srv.SetupRouter(server.Routes{
		Index:        h.HandleIndex,
		GenerateForm: h.HandleGenerateForm,
		AskForm:      h.HandleAskForm,
		Download:     h.HandleDownload,
		Print:        h.HandlePrint,
		Health:       h.HandleHealth,
		Info:         h.HandleInfo,
		Generate:     h.HandleGenerate,
		Ask:          h.HandleAsk,
		Export:       h.HandleExport,
		MCP:          mcptools.Handler(mcptools.New(srv.Cataloguer, version)),
	})

	return srv.Start(ctx)
}

func (a *app) generateCmd() *cobra.Command {
	var copyOutput bool

	cmd := &cobra.Command{
		Use:   "generate [item details]",
		Short: "Draft a MARC21 record; reads stdin when no arguments are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			text, err := a.submit(cmd.Context(), service.GenerateRecord, input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)

			if copyOutput {
				if err := clipboard.WriteAll(text); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Copied!")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyOutput, "copy", false, "copy the record to the clipboard")
	return cmd
}

func (a *app) askCmd() *cobra.Command {
	var saveDir string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the cataloguing expert; reads stdin when no arguments are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			answer, err := a.submit(cmd.Context(), service.AskExpert, question)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)

			if saveDir == "" {
				return nil
			}
			path, err := saveMarkdown(saveDir, question, answer, time.Now())
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Saved", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&saveDir, "save", "", "write the question and answer as markdown into `dir`")
	return cmd
}

// submit runs mode once. Failures surface as the mode's fixed message.
func (a *app) submit(ctx context.Context, mode service.Mode, input string) (string, error) {
	cataloguer, err := server.BuildCataloguer(ctx, a.cfg, a.log)
	if err != nil {
		return "", err
	}

	text, err := cataloguer.Submit(ctx, mode, input)
	if err != nil {
		return "", errors.New(mode.Message(err))
	}
	return text, nil
}

// readInput joins args, or reads all of r when there are none.
func readInput(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// saveMarkdown writes the export file into dir and returns its path. An empty
// pair writes nothing and returns "".
func saveMarkdown(dir, question, answer string, now time.Time) (string, error) {
	content, ok := export.Markdown(question, answer, now)
	if !ok {
		return "", nil
	}

	path := filepath.Join(dir, export.Filename(now))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("save answer: %w", err)
	}
	return path, nil
}
