package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/snowmerak/nativeplug/lib/config"
	"github.com/snowmerak/nativeplug/lib/dynlib"
	"github.com/snowmerak/nativeplug/lib/logger"
	"github.com/snowmerak/nativeplug/lib/plugin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// host carries the state shared by all subcommands of one invocation.
type host struct {
	cfgFile string
	verbose bool
	plugins []string

	v        *viper.Viper
	cfg      *config.Config
	logger   zerolog.Logger
	closeLog func() error

	// opener overrides the configured backend when set.
	opener dynlib.Opener
}

func newHost() *host {
	return &host{
		v:      viper.New(),
		logger: zerolog.Nop(),
	}
}

func newRootCmd(h *host) *cobra.Command {
	root := &cobra.Command{
		Use:   "pluginhost",
		Short: "Load native plugins and call their functions",
		Long: `pluginhost opens shared libraries that export a PluginDeclaration,
registers the functions they publish and calls them by name.

Plugins come from the config file (plugins.paths, plugins.dir) and from
repeated --plugin flags.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return h.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&h.cfgFile, "config", "", "config file (default ~/.config/nativeplug/config.yaml)")
	flags.BoolVarP(&h.verbose, "verbose", "v", false, "log at debug level")
	flags.StringSliceVarP(&h.plugins, "plugin", "p", nil, "plugin to load, may be repeated")
	flags.String("backend", "", "loader backend: goplugin or dlopen")
	// Only fails for a nil flag.
	_ = h.v.BindPFlag("plugins.backend", flags.Lookup("backend"))

	root.AddCommand(
		newListCmd(h),
		newCallCmd(h),
		newLibrariesCmd(h),
		newConfigCmd(h),
	)
	return root
}

// setup reads configuration and builds the logger.
func (h *host) setup() error {
	if err := config.Init(h.v, h.cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(h.v)
	if err != nil {
		return err
	}
	if h.verbose {
		cfg.Logging.Level = "debug"
	}

	h.cfg = cfg
	h.logger, h.closeLog = logger.Setup(cfg.Logging)
	return nil
}

// shutdown releases what setup opened. It is safe to call more than once.
func (h *host) shutdown() error {
	if h.closeLog == nil {
		return nil
	}
	err := h.closeLog()
	h.closeLog = nil
	return err
}

func (h *host) backend() (dynlib.Opener, error) {
	if h.opener != nil {
		return h.opener, nil
	}

	switch h.cfg.Plugins.Backend {
	case config.BackendGoPlugin:
		return dynlib.GoPlugin(), nil
	case config.BackendDlopen:
		return dynlib.Dlopen(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", h.cfg.Plugins.Backend)
	}
}

// openManager loads every configured plugin. Explicit paths must load;
// directory entries that fail are skipped.
func (h *host) openManager() (*plugin.Manager, error) {
	opener, err := h.backend()
	if err != nil {
		return nil, err
	}

	m := plugin.NewManager(
		plugin.WithOpener(opener),
		plugin.WithLogger(h.logger),
	)

	paths := append(append([]string{}, h.cfg.Plugins.Paths...), h.plugins...)
	if err := m.LoadAll(paths...); err != nil {
		m.Close()
		return nil, err
	}

	if err := m.LoadDir(h.cfg.Plugins.Dir); err != nil {
		var le *plugin.LoadError
		if !errors.As(err, &le) {
			m.Close()
			return nil, err
		}
		h.logger.Warn().Err(err).Str("dir", h.cfg.Plugins.Dir).Msg("some plugins in the directory failed to load")
	}

	return m, nil
}

func (h *host) context() plugin.Context {
	return plugin.NewHostContext(h.logger, h.cfg.Context)
}
