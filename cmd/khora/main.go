// Command khora wires the ECS World, the GORNA DCC, the five stock
// agents, and the telemetry/status surface into one running tick loop.
package main

import (
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/khora-engine/khora/agent"
	"github.com/khora-engine/khora/agents/asset"
	"github.com/khora-engine/khora/agents/audio"
	"github.com/khora-engine/khora/agents/ecsgc"
	"github.com/khora-engine/khora/agents/physics"
	"github.com/khora-engine/khora/agents/render"
	"github.com/khora-engine/khora/assets"
	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/ecs/components"
	"github.com/khora-engine/khora/engine"
	"github.com/khora-engine/khora/engine/config"
	"github.com/khora-engine/khora/engine/ectx"
	"github.com/khora-engine/khora/engine/telemetry"
	"github.com/khora-engine/khora/gorna"
)

// loadAssets opens index.bin/data.pack under root if present, falling
// back to an empty index so the engine still starts in a dev tree with
// no asset pack built yet.
func loadAssets(log zerolog.Logger, root string) (*assets.Index, *assets.Pack) {
	indexFile, err := os.Open(filepath.Join(root, "index.bin"))
	if err != nil {
		log.Warn().Err(err).Str("root", root).Msg("no asset index found, asset agent will idle")
		return &assets.Index{}, assets.NewPack(nil)
	}
	defer indexFile.Close()

	index, err := assets.ReadIndex(indexFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse asset index, asset agent will idle")
		return &assets.Index{}, assets.NewPack(nil)
	}

	packFile, err := os.Open(filepath.Join(root, "data.pack"))
	if err != nil {
		log.Warn().Err(err).Msg("no data.pack found, packed variants will fail to resolve")
		return index, assets.NewPack(nil)
	}
	return index, assets.NewPack(packFile)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	registry := ecs.NewComponentRegistry()
	world := ecs.NewWorld(registry, cfg.QueryPlanCacheSize)
	bundle := components.Register(registry, ecs.DomainSpatial)

	services := ectx.NewServiceRegistry()
	promReg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(promReg)
	board := telemetry.NewStatusBoard()
	ectx.InsertService(services, metrics)

	assetIndex, assetPack := loadAssets(log, cfg.AssetPackRoot)

	agents := agent.NewRegistry()
	agents.Register(render.New(log, bundle))
	agents.Register(physics.New(log, bundle))
	agents.Register(ecsgc.New(log, cfg.GCBudget))
	agents.Register(audio.New(log))
	assetAgent, err := asset.New(log, assetIndex, assetPack, cfg.AssetPackRoot, cfg.AssetRetrySchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start asset agent")
	}
	defer assetAgent.Stop()
	agents.Register(assetAgent)

	dcc := gorna.NewDCC(log.With().Str("component", "dcc").Logger())
	scheduler := engine.New(world, services, agents, dcc, cfg.TickTarget, log).
		WithTelemetry(board, metrics)

	if cfg.StatusAddr != "" {
		srv := &http.Server{Addr: cfg.StatusAddr, Handler: telemetry.NewRouter(board, promReg)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("status server stopped")
			}
		}()
		defer srv.Close()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.TickTarget)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := scheduler.Tick(); err != nil {
				log.Error().Err(err).Msg("tick failed")
			}
		case <-sigCh:
			log.Info().Msg("shutting down")
			return
		}
	}
}
