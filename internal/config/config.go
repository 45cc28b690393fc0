// Package config loads pointlight settings from defaults, an optional YAML
// file and POINTLIGHT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teslashibe/go-pointlight/internal/log"
	"github.com/teslashibe/go-pointlight/pkg/action"
	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/projection"
	"github.com/teslashibe/go-pointlight/pkg/render"
)

// EnvPrefix prefixes every environment override, e.g. POINTLIGHT_STIMULUS_MOOD.
const EnvPrefix = "POINTLIGHT"

// Settings is the complete configuration.
type Settings struct {
	Log      LogSettings      `mapstructure:"log" yaml:"log"`
	Stimulus StimulusSettings `mapstructure:"stimulus" yaml:"stimulus"`
	View     ViewSettings     `mapstructure:"view" yaml:"view"`
	Server   ServerSettings   `mapstructure:"server" yaml:"server"`
	Export   ExportSettings   `mapstructure:"export" yaml:"export"`

	// ActionsDir holds custom keyframe action files.
	ActionsDir string `mapstructure:"actions_dir" yaml:"actions_dir"`
}

type LogSettings struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// StimulusSettings selects the action and its modifiers.
type StimulusSettings struct {
	Action         string  `mapstructure:"action" yaml:"action"`
	Weight         string  `mapstructure:"weight" yaml:"weight"`
	Mood           string  `mapstructure:"mood" yaml:"mood"`
	AmplitudeScale float64 `mapstructure:"amplitude_scale" yaml:"amplitude_scale"`
	SpeedScale     float64 `mapstructure:"speed_scale" yaml:"speed_scale"`
	BaseYOffset    float64 `mapstructure:"base_y_offset" yaml:"base_y_offset"`
	Speed          float64 `mapstructure:"speed" yaml:"speed"`
	FPS            float64 `mapstructure:"fps" yaml:"fps"`

	// Loop is "auto" (the action's default), "true" or "false".
	Loop string `mapstructure:"loop" yaml:"loop"`
}

// ViewSettings configure the camera and the visible window.
type ViewSettings struct {
	// Projection is "" for the action's default, "ortho" or "perspective".
	Projection string  `mapstructure:"projection" yaml:"projection"`
	Focal      float64 `mapstructure:"focal" yaml:"focal"`

	MinX float64 `mapstructure:"min_x" yaml:"min_x"`
	MinY float64 `mapstructure:"min_y" yaml:"min_y"`
	MaxX float64 `mapstructure:"max_x" yaml:"max_x"`
	MaxY float64 `mapstructure:"max_y" yaml:"max_y"`
}

type ServerSettings struct {
	Addr   string `mapstructure:"addr" yaml:"addr"`
	Static string `mapstructure:"static" yaml:"static"`
}

// ExportSettings configure offline rendering.
type ExportSettings struct {
	Duration float64 `mapstructure:"duration" yaml:"duration"`
	Workers  int     `mapstructure:"workers" yaml:"workers"`
	Width    int     `mapstructure:"width" yaml:"width"`
	Height   int     `mapstructure:"height" yaml:"height"`
	Codec    string  `mapstructure:"codec" yaml:"codec"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	// -- Log --
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 20)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.compress", false)

	// -- Stimulus --
	v.SetDefault("stimulus.action", string(action.Walking))
	v.SetDefault("stimulus.weight", "")
	v.SetDefault("stimulus.mood", "")
	v.SetDefault("stimulus.amplitude_scale", 1.0)
	v.SetDefault("stimulus.speed_scale", 1.0)
	v.SetDefault("stimulus.base_y_offset", 0.0)
	v.SetDefault("stimulus.speed", 1.0)
	v.SetDefault("stimulus.fps", 30.0)
	v.SetDefault("stimulus.loop", "auto")

	// -- View --
	v.SetDefault("view.projection", "")
	v.SetDefault("view.focal", action.DefaultFocal)
	v.SetDefault("view.min_x", render.DefaultBounds.Min.X)
	v.SetDefault("view.min_y", render.DefaultBounds.Min.Y)
	v.SetDefault("view.max_x", render.DefaultBounds.Max.X)
	v.SetDefault("view.max_y", render.DefaultBounds.Max.Y)

	// -- Server --
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.static", "")

	// -- Export --
	v.SetDefault("export.duration", 4.0)
	v.SetDefault("export.workers", 4)
	v.SetDefault("export.width", 640)
	v.SetDefault("export.height", 480)
	v.SetDefault("export.codec", "MJPG")

	v.SetDefault("actions_dir", "")
}

// New returns a viper instance with defaults and environment overrides.
// When file is empty, ./pointlight.yaml is read if present.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pointlight")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars only
	}
	return v, nil
}

// Default returns the settings with nothing but defaults applied.
func Default() *Settings {
	v := viper.New()
	SetDefaults(v)
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default settings: %v", err))
	}
	return &s
}

// FromViper unmarshals and validates settings.
func FromViper(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &s, nil
}

// Validate checks the settings for sane values.
func (s *Settings) Validate() error {
	if _, err := action.ParseName(s.Stimulus.Action); err != nil && s.ActionsDir == "" {
		return err
	}
	if err := s.Modifiers().Validate(); err != nil {
		return err
	}
	if _, err := s.Loop(); err != nil {
		return err
	}
	if s.Stimulus.Speed <= 0 {
		return errs.Config("config", "stimulus.speed must be positive")
	}
	if s.Stimulus.FPS <= 0 {
		return errs.Config("config", "stimulus.fps must be positive")
	}
	if _, err := s.View.Mode(); err != nil {
		return err
	}
	if s.View.Focal <= 0 {
		return errs.Config("config", "view.focal must be positive")
	}
	if err := s.View.Bounds().Validate(); err != nil {
		return err
	}
	if s.Export.Duration < 0 {
		return errs.Config("config", "export.duration must not be negative")
	}
	if s.Export.Workers <= 0 {
		return errs.Config("config", "export.workers must be a positive integer")
	}
	return nil
}

// Modifiers returns the configured modifiers.
func (s *Settings) Modifiers() action.Modifiers {
	return action.Modifiers{
		Weight:         action.Weight(s.Stimulus.Weight),
		Mood:           action.Mood(s.Stimulus.Mood),
		AmplitudeScale: s.Stimulus.AmplitudeScale,
		SpeedScale:     s.Stimulus.SpeedScale,
		BaseYOffset:    s.Stimulus.BaseYOffset,
	}
}

// Loop returns the loop override; nil keeps the action's default.
func (s *Settings) Loop() (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s.Stimulus.Loop)) {
	case "", "auto":
		return nil, nil
	case "true", "yes", "on":
		b := true
		return &b, nil
	case "false", "no", "off":
		b := false
		return &b, nil
	default:
		return nil, errs.Config("config", "stimulus.loop must be auto, true or false, got %q", s.Stimulus.Loop)
	}
}

// Mode returns the projection override; nil keeps the action's default.
func (v ViewSettings) Mode() (*projection.Mode, error) {
	if strings.TrimSpace(v.Projection) == "" {
		return nil, nil
	}
	m, err := projection.ParseMode(v.Projection)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Bounds returns the visible window.
func (v ViewSettings) Bounds() render.Bounds {
	return render.Bounds{
		Min: r2.Vec{X: v.MinX, Y: v.MinY},
		Max: r2.Vec{X: v.MaxX, Y: v.MaxY},
	}
}

// ActionView returns the camera for building sequences. Frames stay in
// body units; displays map them with Bounds.
func (s *Settings) ActionView() action.View {
	mode, _ := s.View.Mode()
	return action.View{
		Focal:      s.View.Focal,
		Projection: mode,
		Speed:      s.Stimulus.Speed,
	}
}

// FileOptions returns the rotating log file options.
func (l LogSettings) FileOptions() log.FileOptions {
	return log.FileOptions{
		Path:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}
