// Command server runs the VulnWorld training target: a small,
// intentionally vulnerable blog used to teach broken access control,
// session-cookie forgery, sensitive-file exposure, and CSRF.
//
// Everything here is exploitable on purpose. Run it on a closed network
// for a class; never expose it to anything you care about.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/vulncamp/vulnworld/internal/secretkey"
	"github.com/vulncamp/vulnworld/internal/server"
)

// defaultSessionSecret is the fixed process-wide signing secret. Short and
// guessable by design — forging the session cookie is the headline exercise.
const defaultSessionSecret = "VulnCamp"

func main() {
	// .env is optional; real env vars win over it either way.
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	templateDir, _ := filepath.Abs(envOr("TEMPLATE_DIR", "web/templates"))
	staticDir, _ := filepath.Abs(envOr("STATIC_DIR", "web/static"))

	dbPath := envOr("DB_PATH", "data/vulnworld.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// The admin page's prize. Kept at a relative path outside web/ — close
	// to the binary, far from the static file server.
	secretFile := envOr("SECRET_KEY_FILE", "secret/id_rsa")
	created, err := secretkey.EnsureFile(secretFile)
	if err != nil {
		logger.Error("failed to provision secret key file", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if created {
		logger.Info("generated admin secret key file", slog.String("path", secretFile))
	}

	sessionSecret := envOr("SESSION_SECRET", defaultSessionSecret)
	if sessionSecret == defaultSessionSecret {
		logger.Warn("using the default session secret — cookies are trivially forgeable (this is the exercise)")
	}

	cfg := server.Config{
		Port:          port,
		TemplateDir:   templateDir,
		StaticDir:     staticDir,
		DBPath:        dbPath,
		SessionSecret: sessionSecret,
		SecretFile:    secretFile,
		Debug:         os.Getenv("DEBUG") == "true",
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
