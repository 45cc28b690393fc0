package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/protocol"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func frames(t *testing.T, out string) []protocol.FrameData {
	t.Helper()
	var fs []protocol.FrameData
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		var f protocol.FrameData
		require.NoError(t, json.Unmarshal(sc.Bytes(), &f))
		fs = append(fs, f)
	}
	require.NoError(t, sc.Err())
	return fs
}

func TestActionsCmd(t *testing.T) {
	out, err := execute(t, "actions")
	require.NoError(t, err)
	for _, name := range []string{"walking", "running", "jumping", "bowing", "sitting", "lying", "rolling", "turning", "waving"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "built-in")
}

func TestActionsCmd_CustomDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "curtsy.yaml"), []byte(`
description: small curtsy
period: 2
keyframes:
  - name: stand
    phase: 0
  - name: dip
    phase: 0.5
    joints:
      pelvis: [0, 0.8, -0.05]
  - name: stand
    phase: 1
`), 0o644))

	out, err := execute(t, "actions", "--actions-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "curtsy")
	assert.Contains(t, out, "custom")
}

func TestExportCmd_JSONLines(t *testing.T) {
	out, err := execute(t, "export", "--duration", "1", "--fps", "10", "--action", "bowing", "--mood", "sad")
	require.NoError(t, err)

	fs := frames(t, out)
	require.Len(t, fs, 11)
	for i, f := range fs {
		assert.Equal(t, "bowing", f.Action)
		assert.Equal(t, uint64(i+1), f.Seq)
		assert.InDelta(t, float64(i)/10, f.Time, 1e-12)
		assert.Len(t, f.Points, 15)
	}
	assert.Equal(t, fs[0].Session, fs[10].Session)
}

func TestExportCmd_Speed(t *testing.T) {
	out, err := execute(t, "export", "--duration", "1", "--fps", "10")
	require.NoError(t, err)
	normal := frames(t, out)
	require.Len(t, normal, 11)

	out, err = execute(t, "export", "--duration", "0.5", "--fps", "10", "--speed", "2")
	require.NoError(t, err)
	fast := frames(t, out)
	require.Len(t, fast, 6)

	for k, f := range fast {
		assert.InDelta(t, float64(k)/10, f.Time, 1e-12, "time stays on the wall clock")
		want := normal[2*k].Points
		require.Len(t, f.Points, len(want))
		for j := range want {
			assert.InDelta(t, want[j][0], f.Points[j][0], 1e-9, "frame %d joint %d", k, j)
			assert.InDelta(t, want[j][1], f.Points[j][1], 1e-9, "frame %d joint %d", k, j)
		}
	}
}

func TestExportCmd_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.jsonl")
	_, err := execute(t, "export", "--duration", "0.5", "--fps", "20", "--out", path, "--workers", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fs := frames(t, string(data))
	require.Len(t, fs, 11)
	assert.Equal(t, "walking", fs[0].Action)
}

func TestExportCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown action", []string{"export", "--action", "dancing"}},
		{"bad mood", []string{"export", "--mood", "angry"}},
		{"bad format", []string{"export", "--format", "gif"}},
		{"video to stdout", []string{"export", "--format", "video"}},
		{"bad projection", []string{"export", "--projection", "fisheye"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorIs(t, err, errs.ErrConfig)
		})
	}
}

func TestExportCmd_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pointlight.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
stimulus:
  action: jumping
  fps: 5
export:
  duration: 2
`), 0o644))

	out, err := execute(t, "export", "--config", path)
	require.NoError(t, err)
	fs := frames(t, out)
	require.Len(t, fs, 11)
	assert.Equal(t, "jumping", fs[0].Action)

	// Flags beat the file.
	out, err = execute(t, "export", "--config", path, "--action", "waving")
	require.NoError(t, err)
	assert.Equal(t, "waving", frames(t, out)[0].Action)
}

func TestRecordCmd_NeedsURL(t *testing.T) {
	_, err := execute(t, "record")
	assert.Error(t, err)
}
