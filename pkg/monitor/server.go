package monitor

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/edgecv/go-framecast/internal/log"
	"github.com/edgecv/go-framecast/pkg/process"
)

// Status is the dashboard view of the processing agent.
type Status struct {
	State     string  `json:"state"`
	Session   string  `json:"session,omitempty"`
	Mode      string  `json:"mode"`
	Frames    int64   `json:"frames"`
	FPS       float64 `json:"fps"`
	Previewed int     `json:"preview_clients"`
}

// StatusFunc supplies the relay side of the status. The monitor fills in
// mode and preview counts itself.
type StatusFunc func() Status

// Server is the monitor web server.
type Server struct {
	app  *fiber.App
	port int

	switcher *process.Switcher
	status   StatusFunc

	preview *Hub

	cancelHub context.CancelFunc
}

// NewServer builds the monitor around a mode switcher and a status source.
func NewServer(port int, switcher *process.Switcher, status StatusFunc) *Server {
	s := &Server{
		port:     port,
		switcher: switcher,
		status:   status,
		preview:  NewHub("preview"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "framecast monitor",
		DisableStartupMessage: true,
	})

	// CORS so a locally served dashboard page can reach the API
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/modes", s.handleModes)
	api.Post("/mode/:name", s.handleSetMode)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/preview", websocket.New(s.handlePreviewWS))

	s.app = app
	return s
}

// Start serves until Shutdown. It blocks.
func (s *Server) Start() error {
	hubCtx, cancel := context.WithCancel(context.Background())
	s.cancelHub = cancel
	go s.preview.Run(hubCtx)

	log.Info("monitor listening", "url", fmt.Sprintf("http://localhost:%d", s.port))
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// StartAsync serves in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("monitor server failed", "err", err)
		}
	}()
}

// Shutdown stops the server and the preview hub.
func (s *Server) Shutdown() error {
	if s.cancelHub != nil {
		s.cancelHub()
	}
	return s.app.Shutdown()
}

// PublishFrame feeds a processed frame to preview clients. Safe to call from
// the relay loop; it never blocks.
func (s *Server) PublishFrame(jpeg []byte) {
	s.preview.BroadcastBinary(jpeg)
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	st := s.status()
	st.Mode = s.switcher.Mode()
	st.Previewed = s.preview.SubscriberCount()
	return c.JSON(st)
}

func (s *Server) handleModes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"modes":  s.switcher.Modes(),
		"active": s.switcher.Mode(),
	})
}

func (s *Server) handleSetMode(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := s.switcher.SetMode(name); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("unknown mode %q", name),
			"modes": s.switcher.Modes(),
		})
	}
	log.Info("processing mode changed", "mode", name)
	return c.JSON(fiber.Map{"active": name})
}

func (s *Server) handlePreviewWS(conn *websocket.Conn) {
	serveWS(s.preview, conn)
}
