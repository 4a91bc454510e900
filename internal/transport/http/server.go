package http

import (
	"context"
	stdhttp "net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/signalrelay/internal/config"
	"github.com/vovakirdan/signalrelay/internal/core"
)

// Hub is the part of core.Hub the transport needs.
type Hub interface {
	RegisterClient(c *core.Client)
	UnregisterClient(c *core.Client)
	Rooms(ctx context.Context) ([]core.RoomInfo, error)
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer builds the HTTP server. metricsHandler may be nil.
func NewServer(hub Hub, metricsHandler stdhttp.Handler, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(logger))

	r.GET("/health", healthHandler)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	rooms := NewRoomHandlers(hub, logger)
	r.GET("/api/rooms", rooms.ListRooms)

	r.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg, logger)))

	registerStatic(r, cfg.StaticDir, logger)

	return &stdhttp.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

// registerStatic serves files from dir for any GET that no route claimed.
// The file server shares nothing with the hub.
func registerStatic(r *gin.Engine, dir string, logger *zerolog.Logger) {
	notFound := func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	if dir == "" {
		r.NoRoute(notFound)
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Warn().Str("static_dir", dir).Msg("static directory not found, asset serving disabled")
		r.NoRoute(notFound)
		return
	}

	files := stdhttp.FileServer(stdhttp.Dir(dir))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != stdhttp.MethodGet && c.Request.Method != stdhttp.MethodHead {
			notFound(c)
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
	logger.Info().Str("static_dir", dir).Msg("serving static assets")
}
