package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-pointlight/pkg/action"
	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/hub"
	"github.com/teslashibe/go-pointlight/pkg/protocol"
)

// ActionInfo is one entry of GET /api/actions.
type ActionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Custom      bool   `json:"custom"`
}

func (s *Server) handleListActions(c *fiber.Ctx) error {
	names := s.cfg.Registry.List()
	out := make([]ActionInfo, 0, len(names))
	for _, name := range names {
		a, err := s.cfg.Registry.Get(string(name))
		if err != nil {
			continue
		}
		out = append(out, ActionInfo{Name: string(a.Name), Description: a.Description, Custom: a.Custom})
	}
	return c.JSON(fiber.Map{
		"actions": out,
		"count":   len(out),
	})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.Status())
}

func (s *Server) handleSelect(c *fiber.Ctx) error {
	var req SequenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	st, err := s.Select(req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(st)
}

func (s *Server) handleCommand(c *fiber.Ctx) error {
	st, err := s.Command(c.Params("command"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(st)
}

// errorJSON maps configuration and projection failures to 400 and
// unknown actions to 404.
func errorJSON(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, action.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, errs.ErrConfig), errors.Is(err, errs.ErrProjection):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// =============================================================================
// WebSocket handlers
// =============================================================================

func (s *Server) handleFramesWS(c *websocket.Conn) {
	client := hub.NewClient(s.frameHub, c)
	if client == nil {
		return
	}
	s.log.Debug("frame display connected", "remote", c.RemoteAddr().String())

	// Greet with the current status so displays can size themselves.
	if msg, err := protocol.NewStatusMessage(s.Status()); err == nil {
		if data, err := msg.Bytes(); err == nil {
			client.Send(hub.Text(data))
		}
	}
	client.Run()
}

func (s *Server) handleCBORWS(c *websocket.Conn) {
	client := hub.NewClient(s.cborHub, c)
	if client == nil {
		return
	}
	s.log.Debug("binary display connected", "remote", c.RemoteAddr().String())
	client.Run()
}

// handleInbound serves control and ping messages from JSON displays.
func (s *Server) handleInbound(c *hub.Client, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		s.log.Debug("ignoring malformed message", "error", err)
		return
	}
	reply, err := s.respond(msg)
	if err != nil {
		s.log.Warn("control message failed", "type", msg.Type, "error", err)
		reply, _ = protocol.NewMessage(protocol.TypeStatus, fiber.Map{"error": err.Error()})
	}
	if reply == nil || c == nil {
		return
	}
	if out, err := reply.Bytes(); err == nil {
		c.Send(hub.Text(out))
	}
}

// respond applies an inbound message and returns the reply, if any.
func (s *Server) respond(msg *protocol.Message) (*protocol.Message, error) {
	switch msg.Type {
	case protocol.TypePing:
		ping, err := msg.GetPingData()
		if err != nil {
			return nil, err
		}
		return protocol.NewPongMessage(ping.ID, ping.Timestamp, time.Now().UnixMilli())

	case protocol.TypeControl:
		ctrl, err := msg.GetControlData()
		if err != nil {
			return nil, err
		}
		var st protocol.StatusData
		if ctrl.Command == protocol.CommandSelect {
			req := SequenceRequest{
				Action: ctrl.Action,
				Weight: ctrl.Weight,
				Mood:   ctrl.Mood,
				Speed:  ctrl.Speed,
				Loop:   ctrl.Loop,
			}
			if ctrl.Scale != nil {
				req.AmplitudeScale = *ctrl.Scale
			}
			st, err = s.Select(req)
		} else {
			st, err = s.Command(ctrl.Command)
		}
		if err != nil {
			return nil, err
		}
		return protocol.NewStatusMessage(st)
	}
	return nil, nil
}
