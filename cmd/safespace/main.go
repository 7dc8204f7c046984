package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/safespace-app/safespace/internal/activity"
	"github.com/safespace-app/safespace/internal/api"
	"github.com/safespace-app/safespace/internal/config"
	"github.com/safespace-app/safespace/internal/content"
	"github.com/safespace-app/safespace/internal/crisis"
	"github.com/safespace-app/safespace/internal/genai"
	"github.com/safespace-app/safespace/internal/history"
	"github.com/safespace-app/safespace/internal/mood"
	"github.com/safespace-app/safespace/internal/pipeline"
	"github.com/safespace-app/safespace/internal/util"
)

func main() {
	initializeLogger()

	envCfg := loadEnvironmentConfig()
	flags := parseCommandLineFlags(envCfg)

	cfg, err := loadDataConfig(*flags.configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	applyLogLevel(cfg.Logging.Level)

	st, err := buildHistoryStore(*flags.dbDSN)
	if err != nil {
		slog.Error("Failed to initialize history store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Assign through the interface only when a client exists so the
	// generator's nil check sees a nil interface, not a typed nil.
	var aiClient content.AIClient
	if client := buildGenAIClient(flags, cfg.Content.Model); client != nil {
		aiClient = client
	}

	detector := crisis.NewDetector(cfg.Crisis)
	normalizer := mood.NewNormalizer(cfg.Mood)
	selector := activity.NewSelector(cfg.Activities)
	generator := content.NewGenerator(aiClient, cfg.Content)
	orchestrator := pipeline.NewOrchestrator(detector, normalizer, selector, st)

	addr := *flags.apiAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	server := api.NewServer(orchestrator, generator, st, api.WithAddr(addr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Bootstrapping SafeSpace with configured modules",
		"ai_enabled", aiClient != nil, "dsn_set", *flags.dbDSN != "", "api_addr", addr)
	if err := server.Run(ctx); err != nil {
		slog.Error("SafeSpace failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("SafeSpace exited successfully")
}

// Config holds environment configuration
type Config struct {
	ConfigPath    string
	DatabaseURL   string
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	APIAddr       string
}

// Flags holds command line flag values
type Flags struct {
	configPath    *string
	dbDSN         *string
	openaiKey     *string
	openaiBaseURL *string
	openaiModel   *string
	apiAddr       *string
}

// initializeLogger sets up structured logging before configuration is
// available; the level is revisited once config is loaded.
func initializeLogger() {
	level := util.ParseLogLevel(os.Getenv("LOG_LEVEL"), slog.LevelInfo)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// applyLogLevel re-applies the configured log level unless LOG_LEVEL
// overrides it.
func applyLogLevel(configured string) {
	if os.Getenv("LOG_LEVEL") != "" || configured == "" {
		return
	}
	level := util.ParseLogLevel(configured, slog.LevelInfo)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	cfg := Config{
		ConfigPath:    os.Getenv("SAFESPACE_CONFIG"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		APIAddr:       os.Getenv("API_ADDR"),
	}

	slog.Debug("environment variables loaded",
		"SAFESPACE_CONFIG", cfg.ConfigPath,
		"DATABASE_URL_SET", cfg.DatabaseURL != "",
		"OPENAI_API_KEY_SET", cfg.OpenAIKey != "",
		"OPENAI_BASE_URL", cfg.OpenAIBaseURL,
		"OPENAI_MODEL", cfg.OpenAIModel,
		"API_ADDR", cfg.APIAddr)

	return cfg
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(cfg Config) Flags {
	flags := Flags{
		configPath:    flag.String("config", cfg.ConfigPath, "path to YAML data config (overrides $SAFESPACE_CONFIG; embedded defaults when empty)"),
		dbDSN:         flag.String("db-dsn", cfg.DatabaseURL, "database DSN for the mood history store (overrides $DATABASE_URL; in-memory when empty)"),
		openaiKey:     flag.String("openai-api-key", cfg.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		openaiBaseURL: flag.String("openai-base-url", cfg.OpenAIBaseURL, "OpenAI-compatible endpoint URL (overrides $OPENAI_BASE_URL)"),
		openaiModel:   flag.String("openai-model", cfg.OpenAIModel, "chat model for content generation (overrides $OPENAI_MODEL)"),
		apiAddr:       flag.String("api-addr", cfg.APIAddr, "API server address (overrides $API_ADDR)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"configPath", *flags.configPath,
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"openaiBaseURL", *flags.openaiBaseURL,
		"openaiModel", *flags.openaiModel,
		"apiAddr", *flags.apiAddr)

	return flags
}

// loadDataConfig loads the YAML data tables, falling back to the
// embedded defaults when no path is provided.
func loadDataConfig(path string) (*config.Config, error) {
	if path == "" {
		slog.Debug("No config path provided, using embedded defaults")
		return config.Default(), nil
	}
	slog.Debug("Loading data config", "path", path)
	return config.Load(path)
}

// buildHistoryStore selects a history backend from the DSN: Postgres,
// SQLite, or in-memory when no DSN is configured.
func buildHistoryStore(dsn string) (history.Store, error) {
	if dsn == "" {
		slog.Debug("No database DSN provided, using in-memory history store")
		return history.NewInMemoryStore(), nil
	}
	if history.DetectDSNType(dsn) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL history store")
		return history.NewPostgresStore(history.WithPostgresDSN(dsn))
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite history store", "db_path", dsn)
	return history.NewSQLiteStore(history.WithSQLiteDSN(dsn))
}

// buildGenAIClient constructs the AI client. A missing API key is not
// fatal: the content generator serves every request from the fallback
// templates instead. SAFESPACE_DISABLE_AI forces the fallback path even
// when a key is configured. The chat model resolves flag/env first, then
// the data config, then the client's built-in default.
func buildGenAIClient(flags Flags, configModel string) *genai.Client {
	if util.ParseBoolEnv("SAFESPACE_DISABLE_AI", false) {
		slog.Info("AI content generation disabled; serving fallback templates only")
		return nil
	}
	var opts []genai.Option
	if *flags.openaiKey != "" {
		opts = append(opts, genai.WithAPIKey(*flags.openaiKey))
	}
	if *flags.openaiBaseURL != "" {
		opts = append(opts, genai.WithBaseURL(*flags.openaiBaseURL))
	}
	switch {
	case *flags.openaiModel != "":
		opts = append(opts, genai.WithModel(*flags.openaiModel))
	case configModel != "":
		opts = append(opts, genai.WithModel(configModel))
	}
	client, err := genai.NewClient(opts...)
	if err != nil {
		slog.Warn("GenAI client not configured; content generation will use fallback templates", "error", err)
		return nil
	}
	return client
}
