package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/antifraud/antifraud-system/internal/api"
	"github.com/antifraud/antifraud-system/internal/core/ports"
	"github.com/antifraud/antifraud-system/internal/core/service"
	redisstore "github.com/antifraud/antifraud-system/internal/infrastructure/db/redis"
	"github.com/antifraud/antifraud-system/internal/infrastructure/mq"
	"github.com/antifraud/antifraud-system/internal/infrastructure/queue"
	"github.com/antifraud/antifraud-system/internal/infrastructure/security"
	"github.com/antifraud/antifraud-system/internal/pkg/config"
)

// Server wraps the HTTP server and the background audit dispatcher.
type Server struct {
	httpServer *http.Server
	dispatcher *queue.Dispatcher
	closers    []func(context.Context) error
	log        zerolog.Logger
}

// New connects every configured backend and wires the application.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Server, error) {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	s := &Server{log: log, closers: st.closers}

	var redisLock ports.RegistrationLock
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			s.closeAll(ctx)
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
		st.pingers["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		redisLock = redisstore.NewRegistrationLock(rdb, log)
	}
	lock := pickLock(st.lock, redisLock)

	var publisher ports.AuditPublisher
	if cfg.Audit.AMQPURL != "" {
		p, err := mq.NewAuditPublisher(cfg.Audit.AMQPURL, cfg.Audit.Queue)
		if err != nil {
			s.closeAll(ctx)
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return p.Close() })
		st.pingers["rabbitmq"] = p.Ping
		publisher = p
	}

	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	auditService := service.NewAuditService(st.audit, publisher, log)
	s.dispatcher = queue.NewDispatcher(cfg.Audit.Workers, auditService, log)
	s.dispatcher.Start(ctx)

	opts := []service.AccountOption{service.WithAuditRecorder(s.dispatcher)}
	if lock != nil {
		opts = append(opts, service.WithRegistrationLock(lock))
	}

	e := api.NewRouter(api.Dependencies{
		Accounts:          service.NewAccountService(st.accounts, hasher, log, opts...),
		Auth:              service.NewAuthService(st.accounts, hasher, cfg.JWTSecret, cfg.TokenTTL, log),
		Transactions:      service.NewTransactionService(log),
		Blocklist:         service.NewBlocklistService(st.blocklist, log),
		Audit:             auditService,
		Readiness:         st.pingers,
		RegisterRateLimit: cfg.RegisterRateLimit,
		Log:               log,
	}, api.DefaultPermissions())

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort("", cfg.Port),
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// pickLock prefers the store's own registration lock over Redis.
func pickLock(store, redis ports.RegistrationLock) ports.RegistrationLock {
	if store != nil {
		return store
	}
	return redis
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, drains the audit queue and closes every
// backend connection.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.dispatcher.Close()
	s.closeAll(ctx)
	return err
}

func (s *Server) closeAll(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			s.log.Warn().Err(err).Msg("close backend")
		}
	}
}
