package service

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/log"

	"github.com/testinfra/log-acceptor/metrics"
)

const (
	HealthzHost = "0.0.0.0"
	HealthzPort = "8081"

	MetricsHost = "0.0.0.0"
	MetricsPort = "7300"
)

// Service bundles the long-running servers used in capture mode: the
// capture endpoint the browser harness posts to, plus healthz and metrics.
type Service struct {
	Capture *CaptureServer
	Healthz *HealthzServer
	Metrics *MetricsServer

	captureAddr string
}

// New creates the capture-mode service appending records to logFile.
func New(captureAddr, logFile string) *Service {
	return &Service{
		Capture:     NewCaptureServer(logFile),
		Healthz:     &HealthzServer{},
		Metrics:     &MetricsServer{},
		captureAddr: captureAddr,
	}
}

func (s *Service) Start(ctx context.Context) {
	log.Info("service starting")

	go func() {
		log.Info("starting capture server", "addr", s.captureAddr)
		if err := s.Capture.Start(ctx, s.captureAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("error starting capture server", "err", err)
			metrics.RecordErrorDetails("error starting capture server", err)
		}
	}()

	go func() {
		addr := net.JoinHostPort(HealthzHost, HealthzPort)
		log.Info("starting healthz server", "addr", addr)
		if err := s.Healthz.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("error starting healthz server", "err", err)
			metrics.RecordErrorDetails("error starting healthz server", err)
		}
	}()

	go func() {
		addr := net.JoinHostPort(MetricsHost, MetricsPort)
		log.Info("starting metrics server", "addr", addr)
		if err := s.Metrics.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("error starting metrics server", "err", err)
			metrics.RecordErrorDetails("error starting metrics server", err)
		}
	}()

	log.Info("service started")
}

func (s *Service) Shutdown() {
	log.Info("service shutting down")

	_ = s.Capture.Shutdown()
	log.Info("capture stopped")

	_ = s.Healthz.Shutdown()
	log.Info("healthz stopped")

	_ = s.Metrics.Shutdown()
	log.Info("metrics stopped")

	log.Info("service stopped")
}
