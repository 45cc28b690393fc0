// Package video writes point-light frames to a video file with OpenCV.
//
// Markers are white filled discs on a black background.
package video

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/protocol"
	"github.com/teslashibe/go-pointlight/pkg/render"
)

// Options configures a Writer.
type Options struct {
	Width, Height int
	FPS           float64

	// Codec is a FourCC code; defaults to MJPG.
	Codec string

	// Radius is the marker radius in pixels; defaults to Height/80.
	Radius int

	Bounds render.Bounds
}

// DefaultOptions returns a 640x480 MJPG configuration at 30 fps.
func DefaultOptions() Options {
	return Options{
		Width:  640,
		Height: 480,
		FPS:    30,
		Codec:  "MJPG",
		Bounds: render.DefaultBounds,
	}
}

func (o Options) validate() (Options, error) {
	if o.Width <= 0 || o.Height <= 0 {
		return o, errs.Config("video", "invalid size %dx%d", o.Width, o.Height)
	}
	if o.FPS <= 0 {
		return o, errs.Config("video", "invalid fps %v", o.FPS)
	}
	if o.Codec == "" {
		o.Codec = "MJPG"
	}
	if len(o.Codec) != 4 {
		return o, errs.Config("video", "codec %q is not a FourCC", o.Codec)
	}
	if o.Radius <= 0 {
		o.Radius = max(o.Height/80, 2)
	}
	if err := o.Bounds.Validate(); err != nil {
		return o, err
	}
	return o, nil
}

// Writer is a host.Sink that encodes frames to a video file.
type Writer struct {
	vw     *gocv.VideoWriter
	img    gocv.Mat
	opts   Options
	bounds render.Bounds
	frames int
}

// Create opens path for writing.
func Create(path string, opts Options) (*Writer, error) {
	opts, err := opts.validate()
	if err != nil {
		return nil, err
	}

	vw, err := gocv.VideoWriterFile(path, opts.Codec, opts.FPS, opts.Width, opts.Height, true)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	if !vw.IsOpened() {
		vw.Close()
		return nil, fmt.Errorf("open video %s: codec %s unavailable", path, opts.Codec)
	}

	return &Writer{
		vw:     vw,
		img:    gocv.NewMatWithSize(opts.Height, opts.Width, gocv.MatTypeCV8UC3),
		opts:   opts,
		bounds: render.Fit(opts.Bounds, float64(opts.Width)/float64(opts.Height)),
	}, nil
}

// WriteFrame draws and encodes one frame.
func (w *Writer) WriteFrame(f *protocol.FrameData) error {
	w.img.SetTo(gocv.NewScalar(0, 0, 0, 0))
	white := color.RGBA{R: 255, G: 255, B: 255, A: 0}
	for _, c := range render.Rasterize(f.Points, w.bounds, w.opts.Width, w.opts.Height) {
		gocv.Circle(&w.img, image.Pt(c.Col, c.Row), w.opts.Radius, white, -1)
	}
	if err := w.vw.Write(w.img); err != nil {
		return fmt.Errorf("write frame %d: %w", f.Seq, err)
	}
	w.frames++
	return nil
}

// Frames returns the number of frames written.
func (w *Writer) Frames() int {
	return w.frames
}

// Close finalizes the file.
func (w *Writer) Close() error {
	defer w.img.Close()
	return w.vw.Close()
}
