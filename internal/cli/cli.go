package cli

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bilateral/internal/config"
	"github.com/matzehuels/bilateral/pkg/buildinfo"
	"github.com/matzehuels/bilateral/pkg/cache"
	"github.com/matzehuels/bilateral/pkg/pipeline"
	"github.com/matzehuels/bilateral/pkg/store"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
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
// Configuration is loaded once, before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Bilateral picks the fewest employees that cover every bilateral team",
		Long: `Bilateral reads a list of two-person project teams, one employee from
Stockholm and one from London, and finds a smallest set of employees such
that every team has at least one of its members in the set. Among equally
small sets it prefers one containing the friend (1009 by default).`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bilateral/config.toml)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// settings returns the loaded configuration, or the defaults when a command
// runs without the root pre-run (as in tests).
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	cc := c.settings().Cache
	if noCache {
		cc.Backend = config.BackendNone
	}
	ch, err := cc.Open(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", cc.Backend, "err", err)
		ch = cache.NewNullCache()
	}
	r := pipeline.NewRunner(ch, cc.Keyer(), c.Logger)
	r.TTL = cc.TTL.Duration
	return r
}

// historyStore opens the archive of solves saved with --save.
func historyStore() (*store.FileStore, error) {
	return store.NewFileStore(filepath.Join(config.DefaultDataDir(), "solves"))
}
