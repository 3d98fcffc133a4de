package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/api"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/flow"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/notify"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/oracle"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/speech"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/store"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/util"
)

// Default configuration constants
const (
	// DefaultAPIAddr is the default listen address for the API server
	DefaultAPIAddr = ":8080"
	// DefaultStaticDir is the default directory for frontend assets
	DefaultStaticDir = "static"
)

// Config holds environment configuration
type Config struct {
	APIAddr     string
	StaticDir   string
	FlowFile    string
	DBDriver    string
	DBDSN       string
	OpenAIKey   string
	OracleModel string
	OracleURL   string
	SpeechURL   string
	Debug       bool
}

func main() {
	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)
	initializeLogger(*flags.debug)

	st, err := buildStore(*flags.dbDriver, *flags.dbDSN)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	oracleOpts := []oracle.Option{}
	if config.OpenAIKey != "" {
		oracleOpts = append(oracleOpts, oracle.WithAPIKey(config.OpenAIKey))
	}
	if config.OracleModel != "" {
		oracleOpts = append(oracleOpts, oracle.WithModel(config.OracleModel))
	}
	if config.OracleURL != "" {
		oracleOpts = append(oracleOpts, oracle.WithBaseURL(config.OracleURL))
	}
	oracleClient, err := oracle.NewClient(oracleOpts...)
	if err != nil {
		slog.Error("Failed to initialize oracle client", "error", err)
		os.Exit(1)
	}

	registry := flow.DefaultRegistry()
	if *flags.flowFile != "" {
		if err := flow.LoadFlowFile(registry, *flags.flowFile); err != nil {
			slog.Error("Failed to load flow file", "error", err, "path", *flags.flowFile)
			os.Exit(1)
		}
	}
	orchestrator := flow.NewOrchestrator(registry, oracleClient)

	// Optional collaborators: missing configuration disables the feature
	// rather than failing startup.
	var speechClient api.SpeechService
	if config.SpeechURL != "" {
		sc, err := speech.NewClient(speech.WithEndpoint(config.SpeechURL))
		if err != nil {
			slog.Warn("Speech relay disabled", "error", err)
		} else {
			speechClient = sc
		}
	}
	var notifier notify.Sender
	if nc, err := notify.NewClient(); err != nil {
		slog.Debug("Alert SMS notifications disabled", "error", err)
	} else {
		notifier = nc
	}

	server := api.NewServer(orchestrator, st, speechClient, notifier,
		api.WithAddr(*flags.apiAddr),
		api.WithStaticDir(*flags.staticDir),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Bootstrapping banking assistant", "addr", *flags.apiAddr, "db_driver", *flags.dbDriver)
	if err := server.Run(ctx); err != nil {
		slog.Error("Banking assistant failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("Banking assistant exited successfully")
}

// Flags holds command line flag values
type Flags struct {
	apiAddr   *string
	staticDir *string
	flowFile  *string
	dbDriver  *string
	dbDSN     *string
	debug     *bool
}

// initializeLogger sets up structured logging
func initializeLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}
	return Config{
		APIAddr:     util.GetenvDefault("API_ADDR", DefaultAPIAddr),
		StaticDir:   util.GetenvDefault("STATIC_DIR", DefaultStaticDir),
		FlowFile:    os.Getenv("FLOW_FILE"),
		DBDriver:    util.GetenvDefault("DB_DRIVER", "memory"),
		DBDSN:       os.Getenv("DATABASE_URL"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OracleModel: os.Getenv("ORACLE_MODEL"),
		OracleURL:   os.Getenv("ORACLE_BASE_URL"),
		SpeechURL:   os.Getenv("SPEECH_API_URL"),
		Debug:       util.ParseBoolEnv("DEBUG", false),
	}
}

// parseCommandLineFlags parses command line flags with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		apiAddr:   flag.String("addr", config.APIAddr, "API listen address"),
		staticDir: flag.String("static-dir", config.StaticDir, "directory of frontend assets (empty disables)"),
		flowFile:  flag.String("flow-file", config.FlowFile, "YAML flow-definition file overriding built-in flows"),
		dbDriver:  flag.String("db-driver", config.DBDriver, "store backend: memory, sqlite3, or postgres"),
		dbDSN:     flag.String("db-dsn", config.DBDSN, "database connection string"),
		debug:     flag.Bool("debug", config.Debug, "enable debug logging"),
	}
	flag.Parse()
	return flags
}

// buildStore selects the persistence backend from the driver name.
func buildStore(driver, dsn string) (store.Store, error) {
	switch driver {
	case "sqlite3":
		return store.NewSQLiteStore(store.WithDSN(dsn))
	case "postgres":
		return store.NewPostgresStore(store.WithDSN(dsn))
	default:
		slog.Debug("Using in-memory store", "driver", driver)
		return store.NewInMemoryStore(), nil
	}
}
