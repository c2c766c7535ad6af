package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/pixelpane/internal/theme"
)

// Picking holds hit-testing settings.
type Picking struct {
	BlockSize     int
	MissThreshold int
}

// Kinetic holds fling settings.
type Kinetic struct {
	TimeConstant time.Duration
}

// Zoom holds scale limits, wheel and double-tap sensitivity, and how much
// of the viewport must keep showing the image.
type Zoom struct {
	Min          float64
	Max          float64
	WheelDivisor float64
	TapFactor    float64
	ClampBorder  float64
}

// Hover holds pointer hover throttling.
type Hover struct {
	Interval          time.Duration
	ExpensiveInterval time.Duration
}

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Config holds the application configuration.
type Config struct {
	Theme    string
	Renderer string
	SaveDir  string
	Picking  Picking
	Kinetic  Kinetic
	Zoom     Zoom
	Hover    Hover
	Notify   Notify
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:    "", // Default to empty to allow fallback to Env/Default
		Renderer: "gg",
		Picking: Picking{
			BlockSize:     400,
			MissThreshold: 3,
		},
		Kinetic: Kinetic{TimeConstant: 325 * time.Millisecond},
		Zoom: Zoom{
			Min:          0.1,
			Max:          10,
			WheelDivisor: 500,
			TapFactor:    1.3,
			ClampBorder:  0.2,
		},
		Hover: Hover{
			Interval:          50 * time.Millisecond,
			ExpensiveInterval: 150 * time.Millisecond,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// Validate checks values that are only meaningful together.
func (c *Config) Validate() error {
	var errs []error
	if c.Zoom.Min <= 0 || c.Zoom.Max < c.Zoom.Min {
		errs = append(errs, fmt.Errorf("zoom range %v..%v is empty", c.Zoom.Min, c.Zoom.Max))
	}
	if c.Hover.ExpensiveInterval < c.Hover.Interval {
		errs = append(errs, fmt.Errorf("hover expensive_interval_ms below interval_ms"))
	}
	return errors.Join(errs...)
}

// Values returns every scalar setting keyed as "section.key", root keys
// without a section. Durations are in milliseconds.
func (c *Config) Values() map[string]any {
	return map[string]any{
		"theme":                       c.Theme,
		"renderer":                    c.Renderer,
		"save_dir":                    c.SaveDir,
		"picking.block_size":          c.Picking.BlockSize,
		"picking.miss_threshold":      c.Picking.MissThreshold,
		"kinetic.time_constant_ms":    c.Kinetic.TimeConstant.Milliseconds(),
		"zoom.min":                    c.Zoom.Min,
		"zoom.max":                    c.Zoom.Max,
		"zoom.wheel_divisor":          c.Zoom.WheelDivisor,
		"zoom.tap_factor":             c.Zoom.TapFactor,
		"zoom.clamp_border":           c.Zoom.ClampBorder,
		"hover.interval_ms":           c.Hover.Interval.Milliseconds(),
		"hover.expensive_interval_ms": c.Hover.ExpensiveInterval.Milliseconds(),
		"notify.save":                 c.Notify.Save,
		"notify.copy":                 c.Notify.Copy,
	}
}

// Keys returns the names accepted by Set, sorted.
func (c *Config) Keys() []string {
	vals := c.Values()
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns a scalar setting by its "section.key" name.
func (c *Config) Set(name, value string) error {
	section, key, ok := strings.Cut(name, ".")
	if !ok {
		section, key = "", name
	}
	switch section {
	case "":
		return setRootField(c, key, value)
	case "picking":
		return setPickingField(&c.Picking, key, value)
	case "kinetic":
		return setKineticField(&c.Kinetic, key, value)
	case "zoom":
		return setZoomField(&c.Zoom, key, value)
	case "hover":
		return setHoverField(&c.Hover, key, value)
	case "notify":
		return setNotifyField(&c.Notify, key, value)
	}
	return fmt.Errorf("unknown setting %s", name)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.Renderer != "" {
		fmt.Fprintf(&sb, "renderer = %s\n", c.Renderer)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[picking]\n")
	fmt.Fprintf(&sb, "block_size = %d\n", c.Picking.BlockSize)
	fmt.Fprintf(&sb, "miss_threshold = %d\n", c.Picking.MissThreshold)
	sb.WriteString("\n")

	sb.WriteString("[kinetic]\n")
	fmt.Fprintf(&sb, "time_constant_ms = %d\n", c.Kinetic.TimeConstant.Milliseconds())
	sb.WriteString("\n")

	sb.WriteString("[zoom]\n")
	fmt.Fprintf(&sb, "min = %v\n", c.Zoom.Min)
	fmt.Fprintf(&sb, "max = %v\n", c.Zoom.Max)
	fmt.Fprintf(&sb, "wheel_divisor = %v\n", c.Zoom.WheelDivisor)
	fmt.Fprintf(&sb, "tap_factor = %v\n", c.Zoom.TapFactor)
	fmt.Fprintf(&sb, "clamp_border = %v\n", c.Zoom.ClampBorder)
	sb.WriteString("\n")

	sb.WriteString("[hover]\n")
	fmt.Fprintf(&sb, "interval_ms = %d\n", c.Hover.Interval.Milliseconds())
	fmt.Fprintf(&sb, "expensive_interval_ms = %d\n", c.Hover.ExpensiveInterval.Milliseconds())
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Themes sections
	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = theme.Format(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}
