package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/lumins/cmd/lumins/opts"
	"github.com/walteh/lumins/pkg/config"
	"github.com/walteh/lumins/pkg/operation"
	"github.com/walteh/lumins/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the values bound to the persistent flags
type rootFlags struct {
	copy       bool
	noDelete   bool
	secure     bool
	verbose    bool
	checksum   bool
	threads    int
	exclude    []string
	configFile string
	debug      bool
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&f.copy, "copy", "c", false, "copy only: no comparison and no deletion")
	flags.BoolVarP(&f.noDelete, "nodelete", "n", false, "keep destination entries missing from the source")
	flags.BoolVarP(&f.secure, "secure", "s", false, "overwrite deleted files with zeros before removing them")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "print every change")
	flags.BoolVar(&f.checksum, "checksum", false, "hash files even when size and mtime match")
	flags.IntVarP(&f.threads, "threads", "t", 0, "number of concurrent workers (0 = one per CPU)")
	flags.StringArrayVarP(&f.exclude, "exclude", "x", nil, "doublestar glob to skip, relative to each root (repeatable)")
	flags.StringVar(&f.configFile, "config", "", "config file path (default: lumins/config.* in the user config dir)")
	flags.BoolVarP(&f.debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
}

// loadConfig reads the file named by --config, or a discovered one
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("discovering config file")
			return &config.Config{}, nil
		}
		if found == "" {
			return &config.Config{}, nil
		}
		path = found
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeConfig applies flags on top of the file config. An explicitly set
// thread count wins, excludes are appended, switches are OR'ed.
func mergeConfig(cfg *config.Config, f *rootFlags, threadsSet bool) *config.Config {
	merged := *cfg
	merged.Exclude = append(append([]string(nil), cfg.Exclude...), f.exclude...)
	if threadsSet {
		merged.Threads = f.threads
	}
	merged.Copy = cfg.Copy || f.copy
	merged.NoDelete = cfg.NoDelete || f.noDelete
	merged.Secure = cfg.Secure || f.secure
	merged.Verbose = cfg.Verbose || f.verbose
	merged.Checksum = cfg.Checksum || f.checksum
	return &merged
}

// toOptions converts validated settings into engine options
func toOptions(cfg *config.Config) operation.Options {
	var flags operation.Flags
	if cfg.Copy {
		flags |= operation.FlagCopy
	}
	if cfg.NoDelete {
		flags |= operation.FlagNoDelete
	}
	if cfg.Secure {
		flags |= operation.FlagSecure
	}
	if cfg.Verbose {
		flags |= operation.FlagVerbose
	}
	return operation.Options{
		Flags:    flags,
		Workers:  cfg.Threads,
		Exclude:  cfg.Exclude,
		Checksum: cfg.Checksum,
	}
}

// validatePaths checks the source and creates the destination. Both are
// returned as absolute paths.
func validatePaths(src, dest string) (string, string, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return "", "", errors.Errorf("Source Error: %w", err)
	}
	info, err := os.Stat(absSrc)
	if err != nil {
		return "", "", errors.Errorf("Source Error: %w", err)
	}
	if !info.IsDir() {
		return "", "", errors.Errorf("Source Error: %s is not a directory", src)
	}

	absDest, err := filepath.Abs(dest)
	if err != nil {
		return "", "", errors.Errorf("Destination Error: %w", err)
	}
	if within(absSrc, absDest) {
		return "", "", errors.Errorf("Destination Error: %s is inside source %s", dest, src)
	}
	if err := os.MkdirAll(absDest, 0o755); err != nil {
		return "", "", errors.Errorf("Destination Error: %w", err)
	}
	return absSrc, absDest, nil
}

// within reports whether path is root or below it
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// newRootOpts resolves flags, config and positional arguments into the
// options shared by every command
func newRootOpts(ctx context.Context, cmd *cobra.Command, f *rootFlags, args []string) (*opts.RootOpts, error) {
	fileCfg, err := loadConfig(ctx, f.configFile)
	if err != nil {
		return nil, err
	}

	cfg := mergeConfig(fileCfg, f, cmd.Flags().Changed("threads"))
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating options: %w", err)
	}

	src, dest, err := validatePaths(args[0], args[1])
	if err != nil {
		return nil, err
	}

	var console io.Writer
	if cfg.Verbose {
		console = cmd.OutOrStdout()
	}
	mgr := status.New(console)

	options := toOptions(cfg)
	options.Reporter = mgr

	return &opts.RootOpts{
		Source:      src,
		Destination: dest,
		Options:     options,
		Debounce:    cfg.DebounceDuration(),
		Status:      mgr,
		UserLogger:  status.NewUserLogger(ctx),
	}, nil
}
