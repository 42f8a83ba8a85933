package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Config struct {
	// LayoutDir is loaded at start when not empty.
	LayoutDir string `json:"layout-dir"`
	// HTTPAddr serves the status page and the event stream when not empty.
	HTTPAddr      string   `json:"http-addr"`
	Trace         bool     `json:"trace"`
	Check         bool     `json:"check"`
	WatchInterval Duration `json:"watch-interval"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("duration %s must be positive", v)
	}
	*d = Duration(v)
	return nil
}

func Default() Config {
	return Config{
		WatchInterval: Duration(500 * time.Millisecond),
	}
}

// Load reads path over the defaults; keys missing from the file keep their default.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	err = json.Unmarshal(data, &c)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}
