package acceptor

import (
	"context"
	"sync/atomic"

	"github.com/ethereum-optimism/optimism/op-service/cliapp"

	"github.com/testinfra/log-acceptor/service"
)

// captureService wraps the capture-mode servers in the app lifecycle.
type captureService struct {
	svc     *service.Service
	running atomic.Bool
}

var _ cliapp.Lifecycle = &captureService{}

// NewCaptureService creates the capture-mode lifecycle: an HTTP endpoint
// the browser harness posts console records to, appended line by line to
// logFile for a later analyze run.
func NewCaptureService(addr, logFile string) cliapp.Lifecycle {
	return &captureService{
		svc: service.New(addr, logFile),
	}
}

func (c *captureService) Start(ctx context.Context) error {
	c.running.Store(true)
	c.svc.Start(ctx)
	return nil
}

func (c *captureService) Stop(ctx context.Context) error {
	if !c.running.Load() {
		return nil
	}
	c.running.Store(false)
	c.svc.Shutdown()
	return nil
}

func (c *captureService) Stopped() bool {
	return !c.running.Load()
}
