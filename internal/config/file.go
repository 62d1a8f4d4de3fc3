package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML config file. Unset keys keep their defaults;
// environment variables override whatever the file sets.
type FileConfig struct {
	DBPath             string   `yaml:"db_path"`
	Table              string   `yaml:"table"`
	Workers            int      `yaml:"workers"`
	BusyTimeout        Duration `yaml:"busy_timeout"`
	CheckpointSchedule string   `yaml:"checkpoint_schedule"`
	ShapeCacheSize     int      `yaml:"shape_cache_size"`
}

func loadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *FileConfig) applyTo(cfg *EnvConfig) {
	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if fc.Table != "" {
		cfg.Table = fc.Table
	}
	if fc.Workers != 0 {
		cfg.Workers = fc.Workers
	}
	if fc.BusyTimeout != 0 {
		cfg.BusyTimeout = fc.BusyTimeout.Std()
	}
	if fc.CheckpointSchedule != "" {
		cfg.CheckpointSchedule = fc.CheckpointSchedule
	}
	if fc.ShapeCacheSize != 0 {
		cfg.ShapeCacheSize = fc.ShapeCacheSize
	}
}
