package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/examdesk/examportal/internal/chat"
	"github.com/examdesk/examportal/internal/handler"
	"github.com/examdesk/examportal/internal/identity"
	"github.com/examdesk/examportal/internal/model"
	"github.com/examdesk/examportal/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "examportal",
		Short: "Timed multiple-choice exam server",
	}

	serve := serveCmd()
	root.AddCommand(serve, seedCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP exam server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":5000", "HTTP listen address")
	f.String("db", "examportal.db", "SQLite database path")
	f.StringSlice("cors-origins", []string{"http://localhost:5173", "http://localhost:4173"}, "Allowed CORS origins (repeatable)")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL for the chat assistant")
	f.String("llm-key", "", "API key for the chat assistant")
	f.String("llm-model", "mistralai/Mistral-7B-Instruct-v0.3", "Chat assistant model name")
	f.String("student-id", identity.DefaultStudentID, "Placeholder learner id assigned to submissions")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load exam definition JSON files into the catalog",
		RunE:  runSeed,
	}
	f := cmd.Flags()
	f.String("db", "examportal.db", "SQLite database path")
	f.String("data-dir", "data/exams", "Directory with exam JSON files")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EXAMPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("examportal")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/examportal")
	v.AddConfigPath("/etc/examportal")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	chatClient := chat.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
	)

	ident := identity.Static{ID: v.GetString("student-id")}
	h := handler.New(db, db, chatClient, ident)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   v.GetStringSlice("cors-origins"),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Cookie", "X-CSRF-Token"},
		AllowCredentials: true,
	}))

	h.Routes(r)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"db", v.GetString("db"),
		"llm_url", v.GetString("llm-url"),
		"llm_model", v.GetString("llm-model"),
		"cors_origins", v.GetStringSlice("cors-origins"),
	)
	return http.ListenAndServe(addr, r)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	dataDir := v.GetString("data-dir")
	files, err := filepath.Glob(filepath.Join(dataDir, "*.json"))
	if err != nil {
		return fmt.Errorf("scan %s: %w", dataDir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no exam JSON files found in %s", dataDir)
	}
	slog.Info("seeding catalog", "dir", dataDir, "files", len(files))

	if err := db.ClearExams(); err != nil {
		return fmt.Errorf("clear exams: %w", err)
	}

	seeded := 0
	for _, file := range files {
		ex, err := loadExamFile(file)
		if err != nil {
			slog.Error("skipping exam file", "file", file, "error", err)
			continue
		}
		if err := db.PutExam(ex); err != nil {
			slog.Error("skipping exam file", "file", file, "error", err)
			continue
		}
		slog.Info("seeded exam", "file", filepath.Base(file), "set_id", ex.SetID, "title", ex.Title)
		seeded++
	}

	slog.Info("seeding complete", "seeded", seeded, "skipped", len(files)-seeded)
	return nil
}

func loadExamFile(path string) (model.Exam, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Exam{}, err
	}
	var ex model.Exam
	if err := json.Unmarshal(data, &ex); err != nil {
		return model.Exam{}, fmt.Errorf("parse: %w", err)
	}
	ex.Normalize()
	if err := ex.Validate(); err != nil {
		return model.Exam{}, err
	}
	return ex, nil
}
