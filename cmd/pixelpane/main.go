// Command pixelpane views raster images with rectangle feature overlays.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/pixelpane/internal/appstate"
	"github.com/example/pixelpane/internal/config"
	"github.com/example/pixelpane/internal/logging"
	"github.com/example/pixelpane/internal/notify"
	"github.com/example/pixelpane/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

// flagKeys maps the persistent setting flags to configuration keys.
var flagKeys = map[string]string{
	"theme":       "theme",
	"renderer":    "renderer",
	"save-dir":    "save_dir",
	"notify-save": "notify.save",
	"notify-copy": "notify.copy",
}

type root struct {
	program    string
	v          *viper.Viper
	configPath string
	logLevel   string

	loader   *config.Loader
	config   *config.Config
	theme    *theme.Theme
	notifier *notify.Notifier
}

func newRoot() *root {
	return &root{program: "pixelpane", v: viper.New()}
}

func (r *root) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   r.program,
		Short: "View images with rectangle feature overlays",
		Long: `pixelpane shows a raster image in a pan and zoom viewer and draws
rectangle features loaded from JSON files on top of it.

Settings come from flags, then PIXELPANE_* environment variables, then the
configuration file.`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return r.setup(cmd) },
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&r.configPath, "config", configPathOverride, "configuration file")
	pf.StringVar(&r.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("theme", "", "color theme name or file (default, dark)")
	pf.String("renderer", "", "canvas implementation (gg, raster)")
	pf.String("save-dir", "", "directory for saved views")
	pf.Bool("notify-save", false, "show a desktop notification after saving a view")
	pf.Bool("notify-copy", false, "show a desktop notification after copying to the clipboard")
	for flag, key := range flagKeys {
		_ = r.v.BindPFlag(key, pf.Lookup(flag))
	}

	cmd.AddCommand(r.viewCmd(), r.renderCmd(), r.pickCmd(), r.configCmd(), r.versionCmd())
	return cmd
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func (r *root) setup(cmd *cobra.Command) error {
	logger, err := newLogger(r.logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logging.SetLogger(logger)
	gg.SetLogger(logger)

	r.loader = config.NewLoader(version, r.configPath)
	cfg, err := r.loader.Load()
	if err != nil {
		logger.Warn("failed to load config, using defaults", "err", err)
		cfg = config.New()
	}
	if err := resolveSettings(r.v, cfg); err != nil {
		return err
	}
	r.config = cfg
	r.theme = resolveTheme(cfg, logger)
	r.notifier = appstate.NewNotifier(cfg)
	return nil
}

// resolveSettings layers flags and PIXELPANE_* variables over cfg.
func resolveSettings(v *viper.Viper, cfg *config.Config) error {
	v.SetEnvPrefix("PIXELPANE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, val := range cfg.Values() {
		v.SetDefault(key, val)
	}
	for _, key := range cfg.Keys() {
		if err := cfg.Set(key, v.GetString(key)); err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
	}
	return cfg.Validate()
}

// resolveTheme prefers themes defined in the configuration file, then
// theme files and the bundled themes.
func resolveTheme(cfg *config.Config, logger *slog.Logger) *theme.Theme {
	name := cfg.Theme
	if t, ok := cfg.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "default" {
			logger.Warn("failed to load theme, using default", "theme", name, "err", err)
		}
		return theme.Default()
	}
	return t
}

func main() {
	if err := newRoot().command().Execute(); err != nil {
		os.Exit(1)
	}
}
