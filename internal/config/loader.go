package config

import (
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/Sriram-PR/go-discovery/internal/errors"
)

const (
	// EnvPrefix marks the environment variables that override file settings.
	EnvPrefix = "DISCOVERY_"

	maxConfigFileSize = 1024 * 1024
)

// ConfigFileTooLargeError is returned when the configuration file exceeds
// the size limit.
type ConfigFileTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (err ConfigFileTooLargeError) Error() string {
	return "config file " + err.Path + " is too large"
}

// Load reads the configuration from path, then applies environment
// overrides and defaults.
//
// Precedence, highest first:
//  1. DISCOVERY_* environment variables
//  2. the YAML file at path, when path is not empty
//  3. built-in defaults
//
// Environment variables map to keys by splitting on the first underscore
// after the prefix:
//
//	DISCOVERY_POLICY_MAX_FILES      -> policy.max_files
//	DISCOVERY_DISCOVERY_GLOBAL_IGNORE -> discovery.global_ignore
//
// List values taken from the environment are comma separated.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, errors.WithStackTraceAndPrefix(err, "parsing config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.WithStackTraceAndPrefix(err, "loading environment")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.WithStackTraceAndPrefix(err, "decoding config")
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readConfigFile opens path once and checks the open descriptor, so the
// file that is validated is the file that is read.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Errorf("config path %s is not a regular file", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, errors.New(ConfigFileTooLargeError{Path: path, Size: info.Size(), Limit: maxConfigFileSize})
	}

	// The stat size may be stale; never read past the limit.
	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	if int64(len(content)) > maxConfigFileSize {
		return nil, errors.New(ConfigFileTooLargeError{Path: path, Size: int64(len(content)), Limit: maxConfigFileSize})
	}

	return content, nil
}

// envKey maps DISCOVERY_SECTION_FIELD_NAME to section.field_name. Variables
// without a section are dropped.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))

	section, field, ok := strings.Cut(lower, "_")
	if !ok || section == "" || field == "" {
		return ""
	}

	return section + "." + field
}
