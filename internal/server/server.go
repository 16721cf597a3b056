// Package server provides the HTTP signing service. It hands browser
// pages the AuthConfig the document component needs, and streams
// jsapi_ticket rotations over WebSocket and SSE.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/larkdocs/internal/matcher"
	"github.com/agentstation/larkdocs/internal/server/events"
	"github.com/agentstation/larkdocs/internal/server/events/adapters"
	"github.com/agentstation/larkdocs/internal/server/handlers"
	"github.com/agentstation/larkdocs/internal/server/sse"
	ws "github.com/agentstation/larkdocs/internal/server/websocket"
	"github.com/agentstation/larkdocs/internal/ticket"
	"github.com/agentstation/larkdocs/pkg/constants"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/signature"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	tickets        ticket.Source
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	handlers       *handlers.Handlers
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	startTime      time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithSigner signs with s instead of a default signer.
func WithSigner(s *signature.Signer) Option {
	return func(srv *Server) {
		srv.handlers.Signer = s
	}
}

// New creates a server. tickets may be nil, in which case only the
// endpoints that take a caller-supplied ticket work.
func New(cfg Config, tickets ticket.Source, logger *zerolog.Logger, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tickets != nil && cfg.AppID == "" {
		return nil, errors.NewConfigError("server", "app id is required when a ticket source is set", nil)
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()

	s := &Server{
		tickets:        tickets,
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		logger:         logger,
		config:         cfg,
		ctx:            ctx,
		cancel:         cancel,
		startTime:      now,
	}
	s.handlers = handlers.New(handlers.Deps{
		Tickets:   tickets,
		AppID:     cfg.AppID,
		JSAPIList: cfg.JSAPIList,
		Publisher: broker,
		Hub:       wsHub,
		SSE:       sseBroadcaster,
		Upgrader:  s.upgrader(),
		Logger:    logger,
		StartTime: now,
	})
	for _, opt := range opts {
		opt(s)
	}

	logger.Debug().Str("addr", cfg.Addr()).Msg("Server instance created")
	return s, nil
}

func (s *Server) upgrader() websocket.Upgrader {
	origins := matcher.MustNewSet(s.config.CORSOrigins)
	checkOrigins := s.config.CORSEnabled && origins.Len() > 0 && !origins.AllowsAll()
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if !checkOrigins {
				return true
			}
			return origins.Match(r.Header.Get("Origin"))
		},
	}
}

// Start starts background services: the event broker, the realtime
// transports and, when configured, the ticket refresher.
func (s *Server) Start() {
	go s.broker.Run(s.ctx)
	go s.wsHub.Run(s.ctx)
	go s.sseBroadcaster.Run(s.ctx)

	if s.tickets != nil && s.config.RefreshInterval > 0 {
		go s.refreshLoop(s.ctx, s.config.RefreshInterval)
	}
	s.logger.Debug().Msg("Background services started")
}

// refreshLoop polls the ticket source so rotations are published even
// when no page is asking for auth.
func (s *Server) refreshLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	s.refreshOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshOnce(ctx)
		}
	}
}

func (s *Server) refreshOnce(ctx context.Context) {
	t, err := s.tickets.JSAPITicket(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Str("app_id", s.config.AppID).Msg("Background ticket refresh failed")
		s.broker.Publish(events.TicketRefreshFailed, events.RefreshFailure{
			AppID: s.config.AppID,
			Error: err.Error(),
		})
		return
	}
	s.handlers.ObserveTicket(t)
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return errors.WrapResource("listen", "address", s.config.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return s.ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		_ = s.Shutdown(context.Background())
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	// stop background services first so event streams end and connections drain
	_ = s.Shutdown(shutdownCtx)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.WrapResource("shutdown", "server", ln.Addr().String(), err)
	}
	s.logger.Info().Msg("Server stopped gracefully")
	return nil
}

// Shutdown stops background services.
func (s *Server) Shutdown(_ context.Context) error {
	s.cancel()
	return nil
}

// Broker returns the event broker for publishing events.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
