// Package web serves point-light stimuli to browser and binary displays.
//
// The server owns one host.Player. Every tick is broadcast on two hubs:
// JSON envelopes on /ws/frames and CBOR frames on /ws/frames/cbor. A small
// REST API lists actions and switches or controls the running sequence.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/sync/errgroup"

	"github.com/teslashibe/go-pointlight/internal/log"
	"github.com/teslashibe/go-pointlight/pkg/action"
	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/host"
	"github.com/teslashibe/go-pointlight/pkg/hub"
	"github.com/teslashibe/go-pointlight/pkg/projection"
	"github.com/teslashibe/go-pointlight/pkg/protocol"
	"github.com/teslashibe/go-pointlight/pkg/skeleton"
	"github.com/teslashibe/go-pointlight/pkg/stimulus"
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Static, when set, serves a display page from this directory.
	Static string

	FPS      float64
	Skeleton *skeleton.Skeleton
	Registry *action.Registry

	// View is the camera used for every sequence; requests may override
	// the projection mode and speed.
	View action.View

	// Initial is the sequence played at startup.
	Initial SequenceRequest

	Logger *slog.Logger
}

// SequenceRequest selects an action and its modifiers.
type SequenceRequest struct {
	Action         string  `json:"action"`
	Weight         string  `json:"weight,omitempty"`
	Mood           string  `json:"mood,omitempty"`
	AmplitudeScale float64 `json:"amplitude_scale,omitempty"`
	SpeedScale     float64 `json:"speed_scale,omitempty"`
	BaseYOffset    float64 `json:"base_y_offset,omitempty"`

	// Speed scales playback time without changing the motion tables.
	Speed      float64 `json:"speed,omitempty"`
	Projection string  `json:"projection,omitempty"`
	Loop       *bool   `json:"loop,omitempty"`

	// Autostart defaults to true.
	Autostart *bool `json:"autostart,omitempty"`
}

// Server is the stimulus web server
type Server struct {
	app *fiber.App
	cfg Config
	log *slog.Logger

	player *host.Player

	// Hubs for websocket broadcast (thread-safe!)
	frameHub *hub.Hub
	cborHub  *hub.Hub
}

// NewServer builds the server and its initial sequence.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Skeleton == nil {
		cfg.Skeleton = skeleton.Standard()
	}
	if cfg.Registry == nil {
		cfg.Registry = action.NewDefaultRegistry()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Initial.Action == "" {
		cfg.Initial.Action = string(action.Walking)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.L()
	}

	s := &Server{
		cfg:      cfg,
		log:      logger.With("component", "web"),
		frameHub: hub.New("frames").WithLogger(logger),
		cborHub:  hub.New("frames-cbor").WithLogger(logger),
	}

	seq, err := s.build(cfg.Initial)
	if err != nil {
		return nil, fmt.Errorf("initial sequence: %w", err)
	}
	s.player = host.NewPlayer(seq, cfg.FPS, s).WithLogger(logger.With("component", "player"))
	s.frameHub.OnMessage(s.handleInbound)

	app := fiber.New(fiber.Config{
		AppName:               "pointlight",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	if cfg.Static != "" {
		app.Static("/", cfg.Static)
	}

	// API routes
	api := app.Group("/api")
	api.Get("/actions", s.handleListActions)
	api.Get("/status", s.handleStatus)
	api.Post("/sequence", s.handleSelect)
	api.Post("/sequence/:command", s.handleCommand)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))
	app.Get("/ws/frames/cbor", websocket.New(s.handleCBORWS))

	s.app = app
	return s, nil
}

// App returns the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Player returns the render loop.
func (s *Server) Player() *host.Player {
	return s.player
}

// Run serves until ctx is canceled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	// Start all hubs
	g.Go(func() error { s.frameHub.Run(ctx); return nil })
	g.Go(func() error { s.cborHub.Run(ctx); return nil })
	g.Go(func() error { return s.player.Run(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		return s.app.Shutdown()
	})
	g.Go(func() error {
		s.log.Info("stimulus server listening", "addr", s.cfg.Addr, "fps", s.player.FPS())
		if err := s.app.Listen(s.cfg.Addr); err != nil {
			return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
		}
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// WriteFrame broadcasts a frame to both hubs. It makes the server a
// host.Sink.
func (s *Server) WriteFrame(f *protocol.FrameData) error {
	if s.frameHub.ClientCount() > 0 {
		msg, err := protocol.NewFrameMessage(*f)
		if err != nil {
			return err
		}
		if err := s.frameHub.BroadcastJSON(msg); err != nil {
			return err
		}
	}
	if s.cborHub.ClientCount() > 0 {
		data, err := protocol.EncodeCBOR(f)
		if err != nil {
			return err
		}
		s.cborHub.BroadcastBinary(data)
	}
	return nil
}

// Status returns the player status with client counts.
func (s *Server) Status() protocol.StatusData {
	st := s.player.Status()
	st.Clients = s.frameHub.ClientCount() + s.cborHub.ClientCount()
	return st
}

// Select builds a new sequence and swaps it into the player.
func (s *Server) Select(req SequenceRequest) (protocol.StatusData, error) {
	seq, err := s.build(req)
	if err != nil {
		return protocol.StatusData{}, err
	}
	s.player.Swap(seq)
	return s.Status(), nil
}

// Command applies start, stop or reset to the running sequence.
func (s *Server) Command(cmd string) (protocol.StatusData, error) {
	var apply func(*stimulus.Sequence)
	switch strings.ToLower(cmd) {
	case protocol.CommandStart:
		apply = (*stimulus.Sequence).Start
	case protocol.CommandStop:
		apply = (*stimulus.Sequence).Stop
	case protocol.CommandReset:
		apply = (*stimulus.Sequence).Reset
	default:
		return protocol.StatusData{}, errs.Config("web", "unknown command %q (want start|stop|reset)", cmd)
	}
	s.player.Do(apply)
	return s.Status(), nil
}

func (s *Server) build(req SequenceRequest) (*stimulus.Sequence, error) {
	mods := action.Modifiers{
		Weight:         action.Weight(req.Weight),
		Mood:           action.Mood(req.Mood),
		AmplitudeScale: req.AmplitudeScale,
		SpeedScale:     req.SpeedScale,
		BaseYOffset:    req.BaseYOffset,
	}
	preset, err := s.cfg.Registry.Build(req.Action, s.cfg.Skeleton, mods)
	if err != nil {
		return nil, err
	}
	if req.Loop != nil {
		preset.Loop = *req.Loop
	}

	view := s.cfg.View
	if req.Projection != "" {
		mode, err := projection.ParseMode(req.Projection)
		if err != nil {
			return nil, err
		}
		view.Projection = &mode
	}
	if req.Speed != 0 {
		view.Speed = req.Speed
	}

	seq, err := preset.Sequence(s.cfg.Skeleton, view, s.log)
	if err != nil {
		return nil, err
	}
	if req.Autostart == nil || *req.Autostart {
		seq.Start()
	}
	s.log.Info("sequence built", "action", preset.Name, "weight", mods.Weight, "mood", mods.Mood,
		"session", seq.ID().String())
	return seq, nil
}
