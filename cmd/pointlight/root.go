package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teslashibe/go-pointlight/internal/config"
	"github.com/teslashibe/go-pointlight/internal/log"
	"github.com/teslashibe/go-pointlight/pkg/action"
	"github.com/teslashibe/go-pointlight/pkg/skeleton"
	"github.com/teslashibe/go-pointlight/pkg/stimulus"
)

// quietAnnotation marks commands that own the terminal; they log to the
// log file only.
const quietAnnotation = "pointlight/quiet"

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":       "log.level",
	"log-file":        "log.file",
	"action":          "stimulus.action",
	"weight":          "stimulus.weight",
	"mood":            "stimulus.mood",
	"amplitude-scale": "stimulus.amplitude_scale",
	"speed-scale":     "stimulus.speed_scale",
	"speed":           "stimulus.speed",
	"fps":             "stimulus.fps",
	"loop":            "stimulus.loop",
	"projection":      "view.projection",
	"focal":           "view.focal",
	"actions-dir":     "actions_dir",
	"addr":            "server.addr",
	"static":          "server.static",
	"duration":        "export.duration",
	"workers":         "export.workers",
	"width":           "export.width",
	"height":          "export.height",
	"codec":           "export.codec",
}

// app carries state shared by subcommands.
type app struct {
	cfgFile  string
	v        *viper.Viper
	settings *config.Settings
	registry *action.Registry
	skel     *skeleton.Skeleton
	log      *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pointlight",
		Short:         "Point-light biological motion stimuli",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./pointlight.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "also write logs to this rotating file")
	pf.StringP("action", "a", string(action.Walking), "action to show")
	pf.String("weight", "", "weight modifier: heavy|light")
	pf.String("mood", "", "mood modifier: sad|happy")
	pf.Float64("amplitude-scale", 1, "extra amplitude factor")
	pf.Float64("speed-scale", 1, "extra motion speed factor")
	pf.Float64("speed", 1, "playback speed")
	pf.Float64("fps", 30, "frames per second")
	pf.String("loop", "auto", "loop the action: auto|true|false")
	pf.String("projection", "", "projection override: ortho|perspective")
	pf.Float64("focal", action.DefaultFocal, "perspective camera distance")
	pf.String("actions-dir", "", "directory of custom action YAML files")

	root.AddCommand(
		newActionsCmd(a),
		newPlayCmd(a),
		newServeCmd(a),
		newExportCmd(a),
		newRecordCmd(a),
	)
	return root
}

// initialize loads configuration, binds flags, starts logging and builds
// the action registry.
func (a *app) initialize(cmd *cobra.Command) error {
	v, err := config.New(a.cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	s, err := config.FromViper(v)
	if err != nil {
		return err
	}
	a.v, a.settings = v, s

	opts := s.Log.FileOptions()
	opts.NoConsole = cmd.Annotations[quietAnnotation] == "true" || outFlag(cmd) == "-"
	log.InitFile(s.Log.Level, opts)
	a.log = log.L()

	a.skel = skeleton.Standard()
	a.registry = action.NewDefaultRegistry()
	if s.ActionsDir != "" {
		if err := a.registry.LoadCustomDir(s.ActionsDir); err != nil {
			return fmt.Errorf("load actions: %w", err)
		}
		a.log.Info("custom actions loaded", "dir", s.ActionsDir, "actions", a.registry.Count())
	}
	return nil
}

// bindFlags binds every known flag present on the command.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

func outFlag(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("out"); f != nil {
		return f.Value.String()
	}
	return ""
}

// preset builds the configured action.
func (a *app) preset() (*action.Preset, error) {
	s := a.settings
	p, err := a.registry.Build(s.Stimulus.Action, a.skel, s.Modifiers())
	if err != nil {
		return nil, err
	}
	loop, err := s.Loop()
	if err != nil {
		return nil, err
	}
	if loop != nil {
		p.Loop = *loop
	}
	return p, nil
}

// sequence builds an idle sequence for the configured action.
func (a *app) sequence() (*stimulus.Sequence, error) {
	p, err := a.preset()
	if err != nil {
		return nil, err
	}
	return p.Sequence(a.skel, a.settings.ActionView(), a.log)
}
