// Package cli implements the discover command line.
package cli

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	discovery "github.com/Sriram-PR/go-discovery"
	"github.com/Sriram-PR/go-discovery/internal/config"
	"github.com/Sriram-PR/go-discovery/internal/errors"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options holds the command line flags.
type Options struct {
	ConfigPath     string
	Include        []string
	Exclude        []string
	NoIgnore       bool
	GlobalIgnore   bool
	FollowSymlinks bool
	Format         string
	Verbose        bool
}

// NewRootCommand creates the discover command.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "discover [paths...]",
		Short: "List the source files under a set of paths",
		Long: `Walk the given files and directories and print every file that passes
the security policy, the include/exclude globs and the .gitignore rules.

Entries that are skipped are reported as warnings on stderr. Path
traversal, runaway nesting, too many files and oversized ignore files
abort the run with exit code 1.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "YAML configuration file")
	flags.StringSliceVarP(&opts.Include, "include", "i", nil, "only list files matching these globs")
	flags.StringSliceVarP(&opts.Exclude, "exclude", "e", nil, "skip files and directories matching these globs")
	flags.BoolVar(&opts.NoIgnore, "no-ignore", false, "do not read per-directory ignore files")
	flags.BoolVar(&opts.GlobalIgnore, "global-ignore", false, "also apply the global git ignore file")
	flags.BoolVar(&opts.FollowSymlinks, "follow-symlinks", false, "follow symbolic links")
	flags.StringVarP(&opts.Format, "format", "f", FormatText, "output format: text, json or yaml")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug output")

	return cmd
}

func run(cmd *cobra.Command, opts *Options, args []string) error {
	if !validFormat(opts.Format) {
		return errors.Errorf("unknown output format %q", opts.Format)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, opts, cfg)

	filter, err := cfg.GlobFilter()
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	engine, err := discovery.NewEngineWithOptions(cfg.SecurityPolicy(), cfg.EngineOptions(logger))
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	result, err := engine.Discover(args, filter)
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.Format, result)
}

// applyFlags lets flags that were set on the command line win over the
// loaded configuration.
func applyFlags(cmd *cobra.Command, opts *Options, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("include") {
		cfg.Filter.Include = opts.Include
	}
	if flags.Changed("exclude") {
		cfg.Filter.Exclude = opts.Exclude
	}
	if flags.Changed("no-ignore") {
		cfg.Discovery.DisableIgnoreFiles = opts.NoIgnore
	}
	if flags.Changed("global-ignore") {
		cfg.Discovery.GlobalIgnore = opts.GlobalIgnore
	}
	if flags.Changed("follow-symlinks") {
		cfg.Discovery.FollowSymlinks = opts.FollowSymlinks
	}
}

func newLogger(out io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func validFormat(format string) bool {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}
