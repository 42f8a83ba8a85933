package main

import (
	"flag"
	"net/http"
	"os"

	"go.uber.org/zap"
	"nyiyui.ca/hato/kotsu/config"
	"nyiyui.ca/hato/kotsu/kujo"
	"nyiyui.ca/hato/kotsu/sakuragi"
	"nyiyui.ca/hato/kotsu/shell"
	"nyiyui.ca/hato/kotsu/sim"
)

func main() {
	defer zap.S().Sync()
	level := zap.LevelFlag("log-level", zap.WarnLevel, "set log level")
	configPath := flag.String("config", "", "path to a JSON config file")
	layoutDir := flag.String("layout", "", "directory with crossings.sim, streets.sim and cars.sim to load at start")
	httpAddr := flag.String("http", "", "address to serve the status page (/) and event stream (/events) on")
	trace := flag.Bool("trace", false, "record every tick for the history command")
	check := flag.Bool("check", false, "check network invariants after every tick")
	flag.Parse()
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(*level)
	dev, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(dev)

	c := config.Default()
	if *configPath != "" {
		c, err = config.Load(*configPath)
		if err != nil {
			zap.S().Fatalf("config: %s", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "layout":
			c.LayoutDir = *layoutDir
		case "http":
			c.HTTPAddr = *httpAddr
		case "trace":
			c.Trace = *trace
		case "check":
			c.Check = *check
		}
	})

	s, err := sim.New("command-line", sim.Conf{Check: c.Check, Trace: c.Trace})
	if err != nil {
		zap.S().Fatalf("sim: %s", err)
	}
	defer s.Close()
	if c.LayoutDir != "" {
		err = s.Load(c.LayoutDir)
		if err != nil {
			zap.S().Fatalf("load %s: %s", c.LayoutDir, err)
		}
	}

	if c.HTTPAddr != "" {
		zap.S().Infof("starting kujo and sakuragi on %s…", c.HTTPAddr)
		kujoServer := kujo.NewServer(s)
		defer kujoServer.Close()
		mux := http.NewServeMux()
		mux.Handle("/events", kujoServer.Handler())
		mux.Handle("/", sakuragi.NewServer(s))
		go func() {
			err := http.ListenAndServe(c.HTTPAddr, mux)
			zap.S().Fatalf("http: %s", err)
		}()
	}

	err = shell.Run(s, os.Stdin, os.Stdout)
	if err != nil {
		zap.S().Errorf("shell: %s", err)
	}
}
