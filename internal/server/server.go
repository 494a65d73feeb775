package server

import (
	"solana-store-bot/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo       *echo.Echo
	opsHandler *handler.OpsHandler
	opsToken   string
}

func NewServer(opsHandler *handler.OpsHandler, opsToken string) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	s := &Server{
		echo:       e,
		opsHandler: opsHandler,
		opsToken:   opsToken,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api := s.echo.Group("/api")
	api.Use(middleware.KeyAuth(func(key string, c echo.Context) (bool, error) {
		return s.opsToken != "" && key == s.opsToken, nil
	}))

	api.GET("/stats", s.opsHandler.GetStats)
	api.GET("/purchases", s.opsHandler.GetPurchases)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
