package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/rs/cors"

	"github.com/testinfra/log-acceptor/metrics"
)

// maxCaptureBody bounds a single posted console record.
const maxCaptureBody = 4 * 1024 * 1024

// CaptureServer accepts console records POSTed by the in-browser harness
// and appends them to the capture file, one compact JSON object per line,
// the exact format the reader consumes. CORS is wide open because the
// harness posts from whatever origin serves the test page.
type CaptureServer struct {
	ctx     context.Context
	server  *http.Server
	logFile string
	mu      sync.Mutex
}

// NewCaptureServer creates a capture server appending to logFile.
func NewCaptureServer(logFile string) *CaptureServer {
	return &CaptureServer{logFile: logFile}
}

func (c *CaptureServer) Start(ctx context.Context, addr string) error {
	hdlr := http.NewServeMux()
	hdlr.HandleFunc("/log", c.HandleLog)
	crs := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost},
	})
	server := &http.Server{
		Handler: crs.Handler(hdlr),
		Addr:    addr,
	}
	c.server = server
	c.ctx = ctx
	log.Info("Capture server listening", "addr", addr, "logfile", c.logFile)
	return c.server.ListenAndServe()
}

func (c *CaptureServer) Shutdown() error {
	if c.server == nil {
		return nil
	}
	return c.server.Shutdown(c.ctx)
}

// HandleLog validates the posted body as JSON and appends it to the
// capture file as a single line. Invalid JSON gets a 400; the harness is
// expected to retry nothing, so the record is simply lost.
func (c *CaptureServer) HandleLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxCaptureBody))
	if err != nil {
		log.Warn("Failed to read capture body", "err", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	// Re-encode to guarantee one record per line regardless of how the
	// harness formatted the payload.
	var record any
	if err := json.Unmarshal(body, &record); err != nil {
		log.Warn("Rejecting invalid JSON capture body", "err", err)
		http.Error(w, "Invalid JSON data.", http.StatusBadRequest)
		return
	}
	line, err := json.Marshal(record)
	if err != nil {
		http.Error(w, "Invalid JSON data.", http.StatusBadRequest)
		return
	}

	if err := c.appendLine(line); err != nil {
		log.Error("Failed to append capture record", "err", err)
		metrics.RecordErrorDetails("capture append", err)
		http.Error(w, "failed to persist record", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("Data logged successfully.")) //nolint:errcheck
}

func (c *CaptureServer) appendLine(line []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}
