package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/host"
	"github.com/teslashibe/go-pointlight/pkg/protocol"
	"github.com/teslashibe/go-pointlight/pkg/render/video"
	"github.com/teslashibe/go-pointlight/pkg/stimulus"
)

const (
	formatJSONL = "jsonl"
	formatVideo = "video"
)

func newExportCmd(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a stimulus offline to JSON lines or a video file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := a.sequence()
			if err != nil {
				return err
			}
			s := a.settings

			times, err := stimulus.Times(s.Stimulus.FPS, s.Export.Duration)
			if err != nil {
				return err
			}

			var sink host.Sink
			var finish func() error
			switch format {
			case formatJSONL:
				w, closeOut, err := openOut(cmd, out)
				if err != nil {
					return err
				}
				bw := bufio.NewWriter(w)
				enc := json.NewEncoder(bw)
				sink = host.SinkFunc(func(f *protocol.FrameData) error { return enc.Encode(f) })
				finish = func() error {
					if err := bw.Flush(); err != nil {
						closeOut()
						return err
					}
					return closeOut()
				}
			case formatVideo:
				if out == "-" {
					return errs.Config("export", "video export needs --out")
				}
				vw, err := video.Create(out, video.Options{
					Width:  s.Export.Width,
					Height: s.Export.Height,
					FPS:    s.Stimulus.FPS,
					Codec:  s.Export.Codec,
					Bounds: s.View.Bounds(),
				})
				if err != nil {
					return err
				}
				sink, finish = vw, vw.Close
			default:
				return errs.Config("export", "unknown format %q (want jsonl|video)", format)
			}

			start := time.Now()
			frames, err := stimulus.Render(cmd.Context(), seq, times, s.Export.Workers)
			if err != nil {
				finish()
				return err
			}
			for i, frame := range frames {
				fd := &protocol.FrameData{
					Session: seq.ID().String(),
					Seq:     uint64(i + 1),
					Time:    times[i],
					Action:  seq.Name(),
					Points:  protocol.Points(frame),
				}
				if err := sink.WriteFrame(fd); err != nil {
					finish()
					return fmt.Errorf("write frame %d: %w", i, err)
				}
			}
			if err := finish(); err != nil {
				return err
			}
			a.log.Info("export complete", "action", seq.Name(), "frames", len(frames),
				"format", format, "out", out, "elapsed", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSONL, "output format: jsonl|video")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().Float64("duration", 4, "seconds to render")
	cmd.Flags().Int("workers", 4, "parallel frame workers")
	cmd.Flags().Int("width", 640, "video width in pixels")
	cmd.Flags().Int("height", 480, "video height in pixels")
	cmd.Flags().String("codec", "MJPG", "video FourCC codec")
	return cmd
}

// openOut opens path for writing; "-" is the command's stdout.
func openOut(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
