// Package config loads discovery settings from a YAML file and environment
// variables.
package config

import (
	"strings"

	"github.com/sirupsen/logrus"

	discovery "github.com/Sriram-PR/go-discovery"
)

// Config holds the complete discovery configuration.
type Config struct {
	Policy    PolicyConfig    `koanf:"policy"`
	Filter    FilterConfig    `koanf:"filter"`
	Discovery DiscoveryConfig `koanf:"discovery"`
}

// PolicyConfig mirrors discovery.SecurityPolicy.
type PolicyConfig struct {
	MaxFileSize       int64    `koanf:"max_file_size"`
	AllowedExtensions []string `koanf:"allowed_extensions"`
	MaxDepth          int      `koanf:"max_depth"`
	WarnDepth         int      `koanf:"warn_depth"`
	MaxFiles          int      `koanf:"max_files"`
	MaxIgnoreFileSize int64    `koanf:"max_ignore_file_size"`
}

// FilterConfig holds include and exclude glob patterns.
type FilterConfig struct {
	Include []string `koanf:"include"`
	Exclude []string `koanf:"exclude"`
}

// DiscoveryConfig holds walk behavior.
type DiscoveryConfig struct {
	ProjectRoot        string `koanf:"project_root"`
	IgnoreFileName     string `koanf:"ignore_file_name"`
	DisableIgnoreFiles bool   `koanf:"disable_ignore_files"`
	GlobalIgnore       bool   `koanf:"global_ignore"`
	FollowSymlinks     bool   `koanf:"follow_symlinks"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// SecurityPolicy returns the policy described by the configuration.
func (c *Config) SecurityPolicy() discovery.SecurityPolicy {
	return discovery.SecurityPolicy{
		MaxFileSize:       c.Policy.MaxFileSize,
		AllowedExtensions: append([]string(nil), c.Policy.AllowedExtensions...),
		MaxDepth:          c.Policy.MaxDepth,
		WarnDepth:         c.Policy.WarnDepth,
		MaxFiles:          c.Policy.MaxFiles,
		MaxIgnoreFileSize: c.Policy.MaxIgnoreFileSize,
	}
}

// EngineOptions returns engine options for the configuration.
func (c *Config) EngineOptions(logger logrus.FieldLogger) discovery.EngineOptions {
	return discovery.EngineOptions{
		Logger:             logger,
		ProjectRoot:        c.Discovery.ProjectRoot,
		IgnoreFileName:     c.Discovery.IgnoreFileName,
		DisableIgnoreFiles: c.Discovery.DisableIgnoreFiles,
		GlobalIgnore:       c.Discovery.GlobalIgnore,
		FollowSymlinks:     c.Discovery.FollowSymlinks,
	}
}

// GlobFilter compiles the configured patterns. It returns nil when no
// pattern is configured.
func (c *Config) GlobFilter() (*discovery.GlobFilter, error) {
	if len(c.Filter.Include) == 0 && len(c.Filter.Exclude) == 0 {
		return nil, nil
	}
	return discovery.NewGlobFilter(c.Filter.Include, c.Filter.Exclude)
}

// Validate checks the policy limits and the glob patterns.
func (c *Config) Validate() error {
	if err := c.SecurityPolicy().Validate(); err != nil {
		return err
	}
	if _, err := c.GlobFilter(); err != nil {
		return err
	}
	return nil
}

func applyDefaults(cfg *Config) {
	def := discovery.DefaultPolicy()

	if cfg.Policy.MaxFileSize == 0 {
		cfg.Policy.MaxFileSize = def.MaxFileSize
	}
	if len(cfg.Policy.AllowedExtensions) == 0 {
		cfg.Policy.AllowedExtensions = def.AllowedExtensions
	}
	if cfg.Policy.MaxDepth == 0 {
		cfg.Policy.MaxDepth = def.MaxDepth
	}
	if cfg.Policy.WarnDepth == 0 {
		cfg.Policy.WarnDepth = min(def.WarnDepth, cfg.Policy.MaxDepth/2)
	}
	if cfg.Policy.MaxFiles == 0 {
		cfg.Policy.MaxFiles = def.MaxFiles
	}
	if cfg.Policy.MaxIgnoreFileSize == 0 {
		cfg.Policy.MaxIgnoreFileSize = def.MaxIgnoreFileSize
	}
	if cfg.Discovery.IgnoreFileName == "" {
		cfg.Discovery.IgnoreFileName = discovery.DefaultIgnoreFileName
	}

	cfg.Policy.AllowedExtensions = splitList(cfg.Policy.AllowedExtensions)
}

// splitList expands comma-separated entries, as set through environment
// variables, and drops blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
