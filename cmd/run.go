package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abhisek/tutoriz/internal/app"
	"github.com/abhisek/tutoriz/internal/config"
	"github.com/abhisek/tutoriz/internal/contentgen"
	"github.com/abhisek/tutoriz/internal/llm"
	"github.com/abhisek/tutoriz/internal/store"
	"github.com/abhisek/tutoriz/internal/tutor"
	"github.com/spf13/cobra"
)

// runApp loads config, opens the store, builds dependencies, and launches
// the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
	} else if err := store.EnsureDir(dbPath); err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}

	logFile := setupLogging(dbPath)
	if logFile != nil {
		defer logFile.Close()
	}
	slog.Info("starting tutoriz", "version", version, "db", dbPath)

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	sessions := st.SessionRepo()
	events := st.EventRepo()
	opts := app.Options{
		Sessions: sessions,
		Events:   events,
		Cfg:      cfg,
		Version:  version,
	}

	provider, err := llm.NewProviderFromEnv(ctx, events)
	if err != nil {
		slog.Warn("llm provider not configured", "err", err)
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Browsing works, but sessions cannot start without one.")
	} else {
		gen := contentgen.New(provider, contentgen.DefaultConfig())
		opts.Engine = tutor.New(sessions, events, gen, tutor.Config{
			MaxDiagnostic: cfg.MaxDiagnostic,
			GenTimeout:    cfg.GenTimeout,
		})
	}

	return app.Run(opts)
}

// setupLogging routes slog to a JSON log file beside the database. The TUI
// owns the terminal, so logs must never reach stderr; if the file cannot be
// opened they are discarded.
func setupLogging(dbPath string) *os.File {
	logPath := filepath.Join(filepath.Dir(dbPath), "tutoriz.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
		return nil
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, nil)))
	return f
}
