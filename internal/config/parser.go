package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/example/pixelpane/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if themeName, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var key, value string
		if k, v, ok := strings.Cut(line, "="); ok {
			key, value = k, v
		} else if k, v, ok := strings.Cut(line, ":"); ok {
			key, value = k, v
		} else {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = setThemeField(currentTheme, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		case currentSection == "picking":
			err = setPickingField(&cfg.Picking, key, value)
		case currentSection == "kinetic":
			err = setKineticField(&cfg.Kinetic, key, value)
		case currentSection == "zoom":
			err = setZoomField(&cfg.Zoom, key, value)
		case currentSection == "hover":
			err = setHoverField(&cfg.Hover, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d, section [%s]: %w", lineNo, section, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "renderer":
		cfg.Renderer = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setPickingField(p *Picking, key, value string) error {
	switch strings.ToLower(key) {
	case "block_size":
		n, err := parseInt(key, value, 1)
		if err != nil {
			return err
		}
		p.BlockSize = n
	case "miss_threshold":
		n, err := parseInt(key, value, 0)
		if err != nil {
			return err
		}
		p.MissThreshold = n
	}
	return nil
}

func setKineticField(k *Kinetic, key, value string) error {
	if strings.EqualFold(key, "time_constant_ms") {
		d, err := parseMillis(key, value, 1)
		if err != nil {
			return err
		}
		k.TimeConstant = d
	}
	return nil
}

func setZoomField(z *Zoom, key, value string) error {
	var dst *float64
	switch strings.ToLower(key) {
	case "min":
		dst = &z.Min
	case "max":
		dst = &z.Max
	case "wheel_divisor":
		dst = &z.WheelDivisor
	case "tap_factor":
		dst = &z.TapFactor
	case "clamp_border":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		if f < 0 || f > 1 {
			return fmt.Errorf("key %s must be between 0 and 1, got %v", key, f)
		}
		z.ClampBorder = f
		return nil
	default:
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if f <= 0 {
		return fmt.Errorf("key %s must be positive, got %v", key, f)
	}
	*dst = f
	return nil
}

func setHoverField(h *Hover, key, value string) error {
	var dst *time.Duration
	switch strings.ToLower(key) {
	case "interval_ms":
		dst = &h.Interval
	case "expensive_interval_ms":
		dst = &h.ExpensiveInterval
	default:
		return nil
	}
	d, err := parseMillis(key, value, 0)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func parseInt(key, value string, minimum int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if n < minimum {
		return 0, fmt.Errorf("key %s must be at least %d, got %d", key, minimum, n)
	}
	return n, nil
}

func parseMillis(key, value string, minimum int) (time.Duration, error) {
	n, err := parseInt(key, value, minimum)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}

func setThemeField(t *theme.Theme, key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}

	val := reflect.ValueOf(t).Elem()

	// Case-insensitive field lookup
	typ := val.Type()
	var fieldName string
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if strings.EqualFold(f.Name, key) {
			fieldName = f.Name
			break
		}
	}

	if fieldName == "" {
		return nil // Ignore unknown fields
	}

	field := val.FieldByName(fieldName)
	if field.Type() == reflect.TypeOf(color.RGBA{}) {
		col, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		field.Set(reflect.ValueOf(col))
	}
	return nil
}
