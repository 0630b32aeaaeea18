// Package cli implements the pagereview command-line interface.
package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/asteria/pagereview/pkg/buildinfo"
	"github.com/asteria/pagereview/pkg/config"
	"github.com/asteria/pagereview/pkg/review"
	"github.com/asteria/pagereview/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pagereview"

	// defaultRunID is used when neither the queue nor --run names a run.
	defaultRunID = "local"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag. Empty means the default search path.
	ConfigPath string
	// Out receives command output. Nil means os.Stdout.
	Out io.Writer
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
		Use:          appName,
		Short:        "Pagereview edits page geometry and guides for scanned books",
		Long:         `Pagereview works on the per-page sidecars of a scan-normalization run: it snaps crop and trim boxes to detected and book-wide priors, renders and hit-tests guide layers, and applies reviewer overrides across a page, a section, or every page of a template.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $"+config.EnvVar+" or the user config dir)")

	root.AddCommand(c.snapCommand())
	root.AddCommand(c.guidesCommand())
	root.AddCommand(c.hitCommand())
	root.AddCommand(c.scopeCommand())
	root.AddCommand(c.summaryCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.dragCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Loaders
// =============================================================================

func (c *CLI) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

// printJSON writes v as indented JSON.
func (c *CLI) printJSON(v any) error {
	enc := json.NewEncoder(c.out())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// loadConfig reads the configuration named by --config or the search path.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("config loaded", "path", c.configSource())
	return cfg, nil
}

func (c *CLI) configSource() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return config.Path()
}

// openStore opens the patch store, preferring dir, then the configured
// directory, then the default data dir.
func (c *CLI) openStore(cfg config.Config, dir string) (*store.FilePatchStore, error) {
	if dir == "" {
		dir = cfg.Store.Dir
	}
	s, err := store.NewFilePatchStore(dir)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("store opened", "dir", s.Path())
	return s, nil
}

// loadSidecar reads and validates a sidecar file.
func (c *CLI) loadSidecar(path string) (*review.Sidecar, error) {
	prog := newProgress(c.Logger)
	sc, err := review.LoadSidecar(path)
	if err != nil {
		return nil, err
	}
	prog.debug("loaded " + sc.String())
	return sc, nil
}

// runIDFor picks the run id from the flag, then the queue, then the default.
func runIDFor(flag string, q *review.Queue) string {
	switch {
	case flag != "":
		return flag
	case q != nil && q.RunID != "":
		return q.RunID
	default:
		return defaultRunID
	}
}
