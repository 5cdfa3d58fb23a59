package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/glextl/config"
	"github.com/ardanlabs/glextl/emitter"
	"github.com/ardanlabs/glextl/generator"
	"github.com/ardanlabs/glextl/logutil"
	"github.com/ardanlabs/glextl/parser"
)

var Version = "0.1.0"

var (
	ErrInputNotFound = errors.New("unable to find input header")
	ErrNoFeatures    = errors.New("no features found")
	ErrOutputOpen    = errors.New("unable to open output")
	ErrStale         = errors.New("generated files are out of date")
)

func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "glextl [flags] SOURCE_DIR",
		Short: "Generate an OpenGL extension loader from glext.h",
		Long: `glextl scans SOURCE_DIR/include/GL/glext.h and writes a single-header
extension loader to SOURCE_DIR/include/GL/glextl.h, together with an example
implementation file SOURCE_DIR/glextl_impl.cpp.

Settings are read from SOURCE_DIR/glextl.toml when present.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
		},
		RunE: RunHandler,
	}

	rootCmd.Flags().String("config", "", "Config file (default SOURCE_DIR/"+config.FileName+")")
	rootCmd.Flags().String("input", "", "Header to scan, relative to SOURCE_DIR")
	rootCmd.Flags().String("header-out", "", "Generated loader header, relative to SOURCE_DIR")
	rootCmd.Flags().String("impl-out", "", "Generated example implementation file, relative to SOURCE_DIR")
	rootCmd.Flags().Bool("check", false, "Report whether the generated files are up to date without writing them")
	rootCmd.Flags().Bool("debug", false, "Show debug logging")

	return rootCmd
}

func RunHandler(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Too few arguments, a source directory containing include/GL/glext.h is required.")
		fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
		return nil
	}

	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), logutil.Level(cfg.Logging.Debug)))
	slog.Debug("glextl", "version", Version, "input", cfg.Input)

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}

	if check {
		return Check(cfg, cmd.OutOrStdout())
	}

	return Run(cfg, cmd.OutOrStdout())
}

func loadConfig(cmd *cobra.Command, dir string) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}

	optional := path == ""
	if optional {
		path = filepath.Join(dir, config.FileName)
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return cfg, err
	}

	for flag, dst := range map[string]*string{
		"input":      &cfg.Input,
		"header-out": &cfg.Header,
		"impl-out":   &cfg.Example,
	} {
		if cmd.Flags().Changed(flag) {
			if *dst, err = cmd.Flags().GetString(flag); err != nil {
				return cfg, err
			}
		}
	}

	if cmd.Flags().Changed("debug") {
		if cfg.Logging.Debug, err = cmd.Flags().GetBool("debug"); err != nil {
			return cfg, err
		}
	}

	return cfg.Resolve(dir), nil
}

// Run scans cfg.Input and writes the loader header and the example file.
// Progress is reported to out. Files written before a failure are kept.
func Run(cfg config.Config, out io.Writer) error {
	features, err := readFeatures(cfg.Input)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d features loaded from %s\n", len(features), cfg.Input)

	g := generator.New(cfg.Options(), features)

	if err := writeTree(cfg.Header, g.HeaderTree()); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d features written to %s\n", len(features), cfg.Header)

	if err := writeTree(cfg.Example, g.ExampleTree()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Example implementation file written to %s\n", cfg.Example)

	return nil
}

// Check regenerates the output in memory and prints a unified diff for
// every file on disk that differs. It returns ErrStale if any file differs.
func Check(cfg config.Config, out io.Writer) error {
	features, err := readFeatures(cfg.Input)
	if err != nil {
		return err
	}

	files := generator.New(cfg.Options(), features).Generate()

	stale := false
	for _, target := range []struct {
		path string
		name string
	}{
		{cfg.Header, generator.FileHeader},
		{cfg.Example, generator.FileExample},
	} {
		want := files[target.name]

		have, err := os.ReadFile(target.path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", target.path, err)
		}

		if string(have) == want {
			continue
		}
		stale = true

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(have)),
			B:        difflib.SplitLines(want),
			FromFile: target.path,
			ToFile:   target.path + " (generated)",
			Context:  3,
		})
		if err != nil {
			return fmt.Errorf("diffing %s: %w", target.path, err)
		}
		fmt.Fprint(out, diff)
	}

	if stale {
		return ErrStale
	}

	fmt.Fprintln(out, "Generated files are up to date")
	return nil
}

func readFeatures(path string) ([]parser.Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInputNotFound, path, err)
	}
	defer f.Close()

	features, err := parser.Extract(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if len(features) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFeatures, path)
	}

	return features, nil
}

func writeTree(path string, tree *emitter.Tree) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w %s: %w", ErrOutputOpen, path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrOutputOpen, path, err)
	}

	if _, err := tree.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return f.Close()
}
