package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/schulware/pult/internal/config"
	"github.com/schulware/pult/internal/storage"
	"github.com/schulware/pult/internal/sync"
	"github.com/schulware/pult/internal/web"
)

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	if cfg.SyncOnStart {
		if err := sync.Run(db, cfg.ReposDir); err != nil {
			slog.Error("initial sync failed", "error", err)
		}
	}

	server := web.NewServer(db, cfg.ReposDir)
	slog.Info("listening", "addr", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, server); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
