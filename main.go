package main

import (
	"time"

	"github.com/ecotrack/ecotrack/config"
	"github.com/ecotrack/ecotrack/insight"
	"github.com/ecotrack/ecotrack/llm"
	"github.com/ecotrack/ecotrack/models"
	"github.com/ecotrack/ecotrack/routes"
	"github.com/ecotrack/ecotrack/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Action{}, &models.Checkpoint{}, &models.Visit{})

	// Without credentials the advice and estimate flows run on their local
	// fallbacks only.
	var gen llm.Client
	if cfg.GenAIKey != "" {
		gen = llm.NewGemini(cfg.GenAIEndpoint, cfg.GenAIKey, cfg.GenAIModel, time.Duration(cfg.GenAITimeoutSec)*time.Second)
	} else {
		utils.Sugar.Warn("generative service key not configured, using local generation only")
	}

	engine := insight.NewEngine(insight.NewGormStore(db), gen, utils.Sugar)

	r := routes.SetupRouter(db, engine, gen)

	// Prune old visit counters in the background (best-effort)
	utils.StartVisitPruner(24 * time.Hour)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
