// Command raidsim is a top-down debug viewer for the simulated encounters.
// It plays a scripted timeline against the mechanics and draws every live
// omen around a player moved with WASD.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/raidsim/config"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/encounter"
	"github.com/milk9111/raidsim/encounter/e1s"
	"github.com/milk9111/raidsim/encounter/ucob"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host/hosttest"
	"github.com/milk9111/raidsim/netchan"
	"github.com/milk9111/raidsim/prefabs"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "config file (yaml, json or toml)")
	timelineName := flag.String("timeline", "ucob", "timeline file, or the name of a bundled one")
	seed := flag.String("seed", "", "rng seed, overriding the config")
	relay := flag.Bool("relay", false, "connect to the configured relay server")
	watch := flag.Bool("watch", true, "reload config and scripts when they change")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg := config.New()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = c
	}
	if *seed != "" {
		cfg.SetRngSeed(*seed)
	}

	logCfg := cfg.Logging()
	if *debug {
		logCfg.Level = "debug"
	}
	logger, err := config.NewLogger(logCfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	tl, err := LoadTimeline(*timelineName)
	if err != nil {
		logger.Fatal("failed to load timeline", zap.Error(err))
	}

	coil, err := ucob.Descriptor()
	if err != nil {
		logger.Fatal("failed to load encounter tables", zap.Error(err))
	}
	reg, err := encounter.NewRegistry(coil, e1s.Descriptor())
	if err != nil {
		logger.Fatal("failed to build encounter registry", zap.Error(err))
	}

	game := hosttest.NewGame()
	game.MovePlayer(geom.V3(tl.SpawnX, 0, tl.SpawnZ))
	rt := encounter.NewRuntime(game, nil, reg, cfg, logger)
	defer rt.Close()
	rt.World.AddSystem(system.NewOmenRenderSystem())
	rt.Encounters.OnTerritoryChanged(tl.Territory)

	v := NewViewer(rt, game, cfg, NewPlayback(tl, game, rt.Encounters), logger)

	if *watch {
		dirs := []string{prefabs.OverrideDir(), filepath.Join(prefabs.OverrideDir(), "scripts")}
		if *configPath != "" {
			dirs = append(dirs, filepath.Dir(*configPath))
		}
		w, err := config.NewWatcher(existing(dirs)...)
		if err != nil {
			logger.Warn("file watching disabled", zap.Error(err))
		} else {
			defer w.Close()
			v.watcher = w
		}
	}

	if *relay {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := netchan.Dial(ctx, cfg.ServerURL(), logger.Named("relay"))
		cancel()
		if err != nil {
			logger.Error("relay unavailable", zap.String("url", cfg.ServerURL()), zap.Error(err))
		} else {
			defer client.Close()
			v.client = client
			v.dispatch = netchan.NewDispatcher(rt, game, logger.Named("relay"))
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("raidsim")
	ebiten.SetTPS(ticksPerSecond)

	if err := ebiten.RunGame(v); err != nil {
		logger.Fatal("viewer exited", zap.Error(err))
	}
}

// existing drops every path that is not a directory.
func existing(dirs []string) []string {
	out := dirs[:0]
	for _, d := range dirs {
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			out = append(out, d)
		}
	}
	return out
}
