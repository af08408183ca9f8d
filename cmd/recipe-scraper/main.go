package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mbeldar/recipe-scraper-api/internal/api"
	"github.com/mbeldar/recipe-scraper-api/internal/config"
	"github.com/mbeldar/recipe-scraper-api/internal/logging"
	"github.com/mbeldar/recipe-scraper-api/internal/scrape"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level)

	parserCmd := cfg.Scraper.ParserCommand
	if parserCmd == "" {
		parserCmd = cfg.Scraper.Command
	}

	scraper := scrape.NewExecScraper(cfg.Scraper.Command, cfg.Scraper.Sites)
	parser := scrape.NewExecParser(parserCmd)
	svc := scrape.New(scraper, parser, time.Duration(cfg.Scraper.TimeoutSec)*time.Second)
	handler := api.NewRouter(svc, cfg.Server.APIKey)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("recipe scraper API listening", "addr", addr, "sites", len(cfg.Scraper.Sites))
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
