package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/internal/profile"
	"github.com/hrygo/timenorm/plugin/normalizer"
	apiv1 "github.com/hrygo/timenorm/server/router/api/v1"
	"github.com/hrygo/timenorm/store"
)

// Server serves the normalization API over HTTP.
type Server struct {
	Profile    *profile.Profile
	Store      *store.Store
	Normalizer *normalizer.Service

	echoServer *echo.Echo
	apiV1      *apiv1.APIV1Service
	listener   net.Listener
}

// NewServer wires the normalizer and the API routes. A nil store disables
// persistence.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	normalizerService, err := normalizer.NewService(normalizer.Config{
		Direction: profile.ResolveDirection,
		MaxDepth:  profile.MaxResolveDepth,
		Workers:   profile.Workers,
		Logger:    slog.Default(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create normalizer")
	}

	s := &Server{
		Profile:    profile,
		Store:      store,
		Normalizer: normalizerService,
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	s.echoServer = echoServer

	echoServer.GET("/healthz", func(c echo.Context) error {
		if store != nil {
			if err := store.GetDriver().GetDB().PingContext(c.Request().Context()); err != nil {
				return c.String(http.StatusServiceUnavailable, "Database unavailable.")
			}
		}
		return c.String(http.StatusOK, "Service ready.")
	})

	apiV1Service, err := apiv1.NewAPIV1Service(profile, store, normalizerService)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create api service")
	}
	apiV1Service.RegisterRoutes(echoServer)
	s.apiV1 = apiV1Service

	slog.DebugContext(ctx, "api routes registered", "count", len(echoServer.Routes()))
	return s, nil
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}
	s.listener = listener
	if s.apiV1.Stats != nil {
		s.apiV1.Stats.Start(ctx)
	}

	go func() {
		if err := s.echoServer.Server.Serve(listener); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	slog.InfoContext(ctx, "server started", "address", listener.Addr().String())
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server shutting down")
	if s.apiV1.Stats != nil {
		s.apiV1.Stats.Stop()
	}
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			slog.Error("failed to close database", slog.String("error", err.Error()))
		}
	}
	slog.Info("server stopped properly")
}
