package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"healthguard/internal/db"
	httpserver "healthguard/internal/http"
	"healthguard/internal/llm"
	"healthguard/internal/logging"
	"healthguard/internal/refdata"
)

func main() {
	logger := logging.New(os.Stdout, logLevel(), logFormat())
	logging.SetDefault(logger)

	ctx := logging.With(context.Background(), logger)

	// Reference data: compiled-in defaults, optionally overridden from YAML.
	rules := refdata.Default()
	if path := os.Getenv("REFDATA_PATH"); path != "" {
		loaded, err := refdata.Load(path)
		if err != nil {
			logger.Error("failed to load reference data", "path", path, logging.ErrAttr(err))
			os.Exit(1)
		}
		rules = loaded
		logger.Info("loaded reference data overrides", "path", path)
	}

	// Generation backend. Gemini is the default; OpenAI is selectable for
	// deployments without Gemini access.
	var client llm.Client
	switch provider := os.Getenv("LLM_PROVIDER"); provider {
	case "", "gemini":
		gemini, err := llm.NewGeminiClient(ctx)
		if err != nil {
			logger.Error("failed to initialize gemini client", logging.ErrAttr(err))
			os.Exit(1)
		}
		client = gemini
	case "openai":
		client = llm.NewOpenAIClient()
	default:
		logger.Error("unknown LLM provider", "provider", provider)
		os.Exit(1)
	}

	// Case archive is opt-in: no DATABASE_URL, no persistence.
	var archive *db.Repository
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		conn, err := sql.Open("postgres", dbURL)
		if err != nil {
			logger.Error("failed to open database", logging.ErrAttr(err))
			os.Exit(1)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := conn.PingContext(pingCtx); err != nil {
			logger.Error("failed to ping database", logging.ErrAttr(err))
			os.Exit(1)
		}
		if err := db.Migrate(ctx, conn); err != nil {
			logger.Error("failed to run migrations", logging.ErrAttr(err))
			os.Exit(1)
		}
		archive = db.NewRepository(conn)
		logger.Info("case archive enabled")
	}

	srv := httpserver.NewServer(rules, client, archive)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("listening", "addr", addr)
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		logger.Error("server error", logging.ErrAttr(err))
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func logFormat() logging.Format {
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		return logging.FormatJSON
	}
	return logging.FormatConsole
}
