// Package cli implements the pianoxl command-line interface.
//
// # Commands
//
//   - render: write frames of the keyboard preview as SVG, PNG, PDF or JSON
//   - layout: print the placed elements for a window size
//   - preview: interactive terminal preview that follows the window size
//   - serve: HTTP preview server
//   - plan: the layout step graph as DOT, SVG or PDF
//   - state: show, change or reset the persisted UI state
//   - design: dump or validate a design table
//   - cache: manage the frame cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoxl/pkg/buildinfo"
	"github.com/matzehuels/pianoxl/pkg/cache"
	"github.com/matzehuels/pianoxl/pkg/design"
	"github.com/matzehuels/pianoxl/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "pianoxl"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "PianoXL lays out and previews a scalable virtual piano keyboard",
		Long:          `PianoXL fits a fixed-aspect piano keyboard and its controls into any window size, then renders the result to SVG, PNG, PDF, JSON or the terminal.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.designCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerFlagCompletions(root)

	return root
}

// newRunner creates a pipeline runner for CLI use. A nil keyer uses the
// default.
func (c *CLI) newRunner(noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	fc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(fc, keyer, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// loadTable reads the design table at path, or the embedded default when
// path is empty.
func loadTable(path string) (*design.Table, error) {
	if path == "" {
		return design.Default(), nil
	}
	return design.Load(path)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
