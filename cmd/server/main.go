package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/utsabduwadi/bank-management-system/internal/config"
	"github.com/utsabduwadi/bank-management-system/internal/server"
	"github.com/utsabduwadi/bank-management-system/internal/storage"
	"github.com/utsabduwadi/bank-management-system/internal/storage/jsonfile"
	"github.com/utsabduwadi/bank-management-system/internal/storage/postgres"
)

func main() {
	configFile := flag.String("config", os.Getenv("BANK_CONFIG"), "optional YAML config file; environment variables override it")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flag.Parse()

	loadLocalEnv(*envFile)

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !cfg.AdminEnabled() {
		log.Println("ADMIN_PASSWORD_DIGEST not set; admin login is disabled (see bankctl digest)")
	}

	ctx := context.Background()
	store, backend, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	defer store.Close()

	srv, err := server.New(cfg, store, backend)
	if err != nil {
		log.Fatalf("init server: %v", err)
	}

	go func() {
		log.Printf("bank server listening on %s (storage: %s)", srv.Addr(), backend)
		if err := srv.Start(); err != nil {
			log.Fatalf("%v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

// openStore picks Postgres when DATABASE_URL is set and the JSON file otherwise.
func openStore(ctx context.Context, cfg config.Config) (storage.DocumentStore, string, error) {
	if cfg.DatabaseURL != "" {
		store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, "", err
		}
		return store, "postgres", nil
	}
	return jsonfile.New(cfg.DataFile), "json:" + cfg.DataFile, nil
}

func loadLocalEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("no %s file found; relying on existing environment", path)
	}
}
