package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-pointlight/pkg/action"
	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/projection"
	"github.com/teslashibe/go-pointlight/pkg/render"
)

func TestDefault(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())

	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, "walking", s.Stimulus.Action)
	assert.Equal(t, 30.0, s.Stimulus.FPS)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, 4, s.Export.Workers)
	assert.Equal(t, render.DefaultBounds, s.View.Bounds())

	loop, err := s.Loop()
	require.NoError(t, err)
	assert.Nil(t, loop)

	view := s.ActionView()
	assert.Nil(t, view.Projection)
	assert.Equal(t, action.DefaultFocal, view.Focal)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("POINTLIGHT_STIMULUS_ACTION", "bowing")
	t.Setenv("POINTLIGHT_STIMULUS_MOOD", "sad")
	t.Setenv("POINTLIGHT_VIEW_PROJECTION", "perspective")
	t.Setenv("POINTLIGHT_STIMULUS_LOOP", "false")

	v, err := New("")
	require.NoError(t, err)
	s, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "bowing", s.Stimulus.Action)
	assert.Equal(t, action.Mood("sad"), s.Modifiers().Mood)

	mode := s.ActionView().Projection
	require.NotNil(t, mode)
	assert.Equal(t, projection.Perspective, *mode)

	loop, err := s.Loop()
	require.NoError(t, err)
	require.NotNil(t, loop)
	assert.False(t, *loop)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
stimulus:
  action: running
  weight: heavy
  fps: 60
view:
  max_x: 3
export:
  workers: 8
`), 0o644))

	v, err := New(path)
	require.NoError(t, err)
	s, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "running", s.Stimulus.Action)
	assert.Equal(t, action.Weight("heavy"), s.Modifiers().Weight)
	assert.Equal(t, 60.0, s.Stimulus.FPS)
	assert.Equal(t, 3.0, s.View.Bounds().Max.X)
	assert.Equal(t, 8, s.Export.Workers)
	// Untouched keys keep their defaults.
	assert.Equal(t, "info", s.Log.Level)
}

func TestNew_MissingExplicitFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"unknown action", func(s *Settings) { s.Stimulus.Action = "dancing" }},
		{"bad weight", func(s *Settings) { s.Stimulus.Weight = "medium" }},
		{"bad mood", func(s *Settings) { s.Stimulus.Mood = "angry" }},
		{"bad loop", func(s *Settings) { s.Stimulus.Loop = "sometimes" }},
		{"zero speed", func(s *Settings) { s.Stimulus.Speed = 0 }},
		{"zero fps", func(s *Settings) { s.Stimulus.FPS = 0 }},
		{"bad projection", func(s *Settings) { s.View.Projection = "fisheye" }},
		{"negative focal", func(s *Settings) { s.View.Focal = -1 }},
		{"empty bounds", func(s *Settings) { s.View.MaxX = s.View.MinX }},
		{"negative duration", func(s *Settings) { s.Export.Duration = -1 }},
		{"no workers", func(s *Settings) { s.Export.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), errs.ErrConfig)
		})
	}

	// A custom action directory may define names the registry doesn't know yet.
	s := Default()
	s.Stimulus.Action = "curtsy"
	s.ActionsDir = t.TempDir()
	assert.NoError(t, s.Validate())
}

func TestFileOptions(t *testing.T) {
	s := Default()
	s.Log.File = "/tmp/pointlight.log"
	opts := s.Log.FileOptions()
	assert.Equal(t, "/tmp/pointlight.log", opts.Path)
	assert.Equal(t, 20, opts.MaxSizeMB)
	assert.Equal(t, 3, opts.MaxBackups)
}
