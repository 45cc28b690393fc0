// Package term draws point-light frames in a terminal.
package term

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/teslashibe/go-pointlight/pkg/host"
	"github.com/teslashibe/go-pointlight/pkg/protocol"
	"github.com/teslashibe/go-pointlight/pkg/render"
)

// CellAspect is the width/height ratio of one terminal character.
const CellAspect = 0.5

// Marker is the rune drawn for each point light.
const Marker = '●'

// Display is a host.Sink that draws frames on a tcell screen. Pressing
// q, Esc or Ctrl-C makes the next WriteFrame return host.ErrStop.
type Display struct {
	screen tcell.Screen
	bounds render.Bounds

	markerStyle tcell.Style
	statusStyle tcell.Style

	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
}

// Open creates a Display on the controlling terminal.
func Open(bounds render.Bounds) (*Display, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return New(screen, bounds)
}

// New initializes screen and starts reading its key events.
func New(screen tcell.Screen, bounds render.Bounds) (*Display, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	d := &Display{
		screen:      screen,
		bounds:      bounds,
		markerStyle: tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
		statusStyle: tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go d.pollEvents()
	return d, nil
}

func (d *Display) pollEvents() {
	defer close(d.done)
	for {
		ev := d.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			// Screen finalized
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
				d.quitOnce.Do(func() { close(d.quit) })
			}
		case *tcell.EventResize:
			d.screen.Sync()
		}
	}
}

// Quit is closed once the viewer asks to stop.
func (d *Display) Quit() <-chan struct{} {
	return d.quit
}

// WriteFrame draws f. It returns host.ErrStop after the viewer quits.
func (d *Display) WriteFrame(f *protocol.FrameData) error {
	select {
	case <-d.quit:
		return host.ErrStop
	default:
	}

	d.screen.Fill(' ', d.markerStyle)
	cols, rows := d.screen.Size()
	plot := rows - 1 // last row is the status line
	if plot > 0 {
		b := render.Fit(d.bounds, float64(cols)*CellAspect/float64(plot))
		for _, c := range render.Rasterize(f.Points, b, cols, plot) {
			d.screen.SetContent(c.Col, c.Row, Marker, nil, d.markerStyle)
		}
	}

	status := fmt.Sprintf(" %s  t=%.2fs  frame %d  [q] quit", f.Action, f.Time, f.Seq)
	for i, r := range []rune(status) {
		if i >= cols {
			break
		}
		d.screen.SetContent(i, rows-1, r, nil, d.statusStyle)
	}
	d.screen.Show()
	return nil
}

// Close restores the terminal.
func (d *Display) Close() {
	d.screen.Fini()
	<-d.done
}
