// Package rest exposes the services over HTTP/JSON using chi.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/logging"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/metrics"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/auth"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services bundles what the handlers delegate to.
type Services struct {
	Users      *services.UserService
	Detections *services.DetectionService
	Claims     *services.ClaimService
	Admin      *services.AdminService
}

type RESTServer struct {
	address   string
	logger    logging.Logger
	svc       Services
	authority *auth.Authority
	metrics   *metrics.Metrics
	db        Pinger
}

func NewRESTServer(address string, l logging.Logger, svc Services, authority *auth.Authority, m *metrics.Metrics, db Pinger) *RESTServer {
	return &RESTServer{
		address:   address,
		logger:    l.With("module", "rest_server"),
		svc:       svc,
		authority: authority,
		metrics:   m,
		db:        db,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *RESTServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting REST server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
