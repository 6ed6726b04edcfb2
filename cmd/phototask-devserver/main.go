// Package main runs the in-memory development backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"phototask/internal/devserver"
	"phototask/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists
	_ = godotenv.Load()

	var (
		addr      = flag.String("addr", getEnv("PORT_ADDR", ":8080"), "listen address")
		uploads   = flag.String("uploads", getEnv("UPLOAD_DIR", filepath.Join(os.TempDir(), "phototask-uploads")), "image storage directory")
		publicURL = flag.String("public-url", os.Getenv("PUBLIC_URL"), "base URL of image links (default: request host)")
		secret    = flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "token signing secret")
		ttl       = flag.Duration("token-ttl", 24*time.Hour, "token lifetime")
		demo      = flag.String("user", "demo@example.com:demo1234:Demo", "account to create, as email:password:name (repeat with commas)")
		debug     = flag.Bool("debug", false, "log every request")
	)
	flag.Parse()

	log := logging.New(os.Stderr, true)

	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := devserver.New(devserver.Config{
		JWTSecret: *secret,
		TokenTTL:  *ttl,
		UploadDir: *uploads,
		PublicURL: *publicURL,
		AccessLog: *debug,
	})

	for _, account := range strings.Split(*demo, ",") {
		if strings.TrimSpace(account) == "" {
			continue
		}
		parts := strings.SplitN(strings.TrimSpace(account), ":", 3)
		if len(parts) < 2 {
			return fmt.Errorf("invalid -user %q: want email:password[:name]", account)
		}
		name := ""
		if len(parts) == 3 {
			name = parts[2]
		}
		if err := srv.AddUser(parts[0], name, parts[1]); err != nil {
			return err
		}
		log.Info("created account", "email", parts[0])
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", *addr, "uploads", *uploads)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
