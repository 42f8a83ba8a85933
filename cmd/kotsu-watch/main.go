package main

import (
	"flag"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"nyiyui.ca/hato/kotsu/config"
	"nyiyui.ca/hato/kotsu/layout"
	"nyiyui.ca/hato/kotsu/sim"
	"nyiyui.ca/hato/kotsu/ui"
)

func main() {
	defer zap.S().Sync()
	level := zap.LevelFlag("log-level", zap.ErrorLevel, "set log level")
	layoutDir := flag.String("layout", "", "directory with crossings.sim, streets.sim and cars.sim")
	preset := flag.String("preset", "ring", "built-in layout to use when -layout is not given")
	interval := flag.Duration("interval", 500*time.Millisecond, "time between ticks")
	check := flag.Bool("check", false, "check network invariants after every tick")
	configPath := flag.String("config", "", "path to a JSON config file; -layout and -interval override it")
	flag.Parse()
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(*level)
	// termui owns the terminal
	cfg.OutputPaths = []string{"kotsu-watch.log"}
	dev, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(dev)

	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			zap.S().Fatalf("config: %s", err)
		}
		set := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if !set["layout"] {
			*layoutDir = c.LayoutDir
		}
		if !set["interval"] {
			*interval = time.Duration(c.WatchInterval)
		}
	}

	var y *layout.Layout
	if *layoutDir != "" {
		y, err = layout.Load(*layoutDir)
		if err != nil {
			zap.S().Fatalf("load %s: %s", *layoutDir, err)
		}
	} else {
		mk, ok := layout.Presets[*preset]
		if !ok {
			names := maps.Keys(layout.Presets)
			slices.Sort(names)
			zap.S().Fatalf("unknown preset %s (choose from %v)", *preset, names)
		}
		y = mk()
	}

	s, err := sim.New("watch", sim.Conf{Check: *check})
	if err != nil {
		zap.S().Fatalf("sim: %s", err)
	}
	defer s.Close()
	err = s.SetLayout(y)
	if err != nil {
		zap.S().Fatalf("build: %s", err)
	}
	err = ui.Main(s, *interval)
	if err != nil {
		zap.S().Fatalf("ui: %s", err)
	}
}
