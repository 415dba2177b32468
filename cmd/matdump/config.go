package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/logicossoftware/go-matfile"
	"github.com/logicossoftware/go-matfile/internal/logger"
)

// Config is the matdump configuration file. Pointer fields distinguish
// "not set" from false.
type Config struct {
	LogLevel           string       `yaml:"log_level"`
	LogFormat          string       `yaml:"log_format"`
	NativeOrder        string       `yaml:"native_order"`
	UnpaddedCompressed *bool        `yaml:"unpadded_compressed"`
	ContinueOnError    *bool        `yaml:"continue_on_error"`
	Limits             LimitsConfig `yaml:"limits"`
}

type LimitsConfig struct {
	MaxElementSize      uint32 `yaml:"max_element_size"`
	MaxDecompressedSize uint64 `yaml:"max_decompressed_size"`
	MaxDepth            int    `yaml:"max_depth"`
}

// settings is the effective configuration after flags and the config file
// are merged.
type settings struct {
	logLevel           string
	logFormat          string
	nativeOrder        string
	unpaddedCompressed bool
	continueOnError    bool
	limits             matfile.Limits
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "matdump", "config.yaml")
}

// LoadConfig reads the config file at path, or at the default location
// when path is empty. A missing default file yields a zero Config.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
		if path == "" {
			return Config{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyConfig copies config file values into s for every setting whose
// flag was not given explicitly.
func applyConfig(isSet func(string) bool, cfg Config, s *settings) {
	if cfg.LogLevel != "" && !isSet("log-level") {
		s.logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !isSet("log-format") {
		s.logFormat = cfg.LogFormat
	}
	if cfg.NativeOrder != "" && !isSet("native-order") {
		s.nativeOrder = cfg.NativeOrder
	}
	if cfg.UnpaddedCompressed != nil && !isSet("unpadded-compressed") {
		s.unpaddedCompressed = *cfg.UnpaddedCompressed
	}
	if cfg.ContinueOnError != nil && !isSet("continue-on-error") {
		s.continueOnError = *cfg.ContinueOnError
	}
	s.limits = matfile.Limits{
		MaxElementSize:      cfg.Limits.MaxElementSize,
		MaxDecompressedSize: cfg.Limits.MaxDecompressedSize,
		MaxDepth:            cfg.Limits.MaxDepth,
	}
}

func newLogger(w io.Writer, level, format string) (logger.Logger, error) {
	lvl := logger.ParseLevel(level)
	switch strings.ToLower(format) {
	case "", "pretty":
		return logger.Pretty(w, lvl), nil
	case "text":
		return logger.Text(w, lvl), nil
	case "json":
		return logger.JSON(w, lvl), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

func parseOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(name) {
	case "", "big", "be":
		return binary.BigEndian, nil
	case "little", "le":
		return binary.LittleEndian, nil
	}
	return nil, fmt.Errorf("unknown byte order %q", name)
}

// readOptions turns s into decoder options logging through log.
func (s settings) readOptions(log logger.Logger) ([]matfile.ReadOption, error) {
	order, err := parseOrder(s.nativeOrder)
	if err != nil {
		return nil, err
	}
	return []matfile.ReadOption{
		matfile.WithNativeOrder(order),
		matfile.WithReadLimits(s.limits),
		matfile.WithContinueOnError(s.continueOnError),
		matfile.WithUnpaddedCompressed(s.unpaddedCompressed),
		matfile.WithLogger(slog.New(logger.Handler(log))),
	}, nil
}
