// Package healthcheck serves GET /healthz on the loopback interface with
// the state of every installed bundle.
package healthcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/framework"
	"github.com/thoreinstein/jitsi/internal/logging"
)

// ServicePort holds the configured port (int). Zero or a missing service
// disables the endpoint.
const ServicePort = "healthcheck.port"

// Path is the endpoint path.
const Path = "/healthz"

const shutdownTimeout = 5 * time.Second

// BundleStatus is one entry of the report.
type BundleStatus struct {
	ID     int64  `json:"id"`
	Origin string `json:"origin"`
	State  string `json:"state"`
}

// Report is the /healthz response body.
type Report struct {
	Status  string         `json:"status"`
	Bundles []BundleStatus `json:"bundles"`
}

// Module runs the health endpoint.
type Module struct {
	srv    *http.Server
	addr   string
	logger *slog.Logger
}

// New returns the healthcheck activator.
func New() framework.Activator {
	return &Module{}
}

// Addr returns the listening address, or "" when disabled.
func (m *Module) Addr() string { return m.addr }

func (m *Module) Start(ctx *framework.Context) error {
	m.logger = ctx.Logger().With(logging.ComponentKey, "healthcheck")

	port := 0
	if svc, ok := ctx.Service(ServicePort); ok {
		port, _ = svc.(int)
	}
	if port <= 0 {
		m.logger.Debug("health check endpoint disabled")
		return nil
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return errors.Wrapf(err, "listening on port %d", port)
	}
	m.addr = ln.Addr().String()

	mux := http.NewServeMux()
	mux.HandleFunc(Path, func(w http.ResponseWriter, r *http.Request) {
		m.serve(ctx, w, r)
	})
	m.srv = &http.Server{Handler: mux, ReadHeaderTimeout: shutdownTimeout}

	go func() {
		m.logger.Info("health check endpoint listening", "address", "http://"+m.addr+Path)
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("health check server failed", "error", err)
		}
	}()
	return nil
}

func (m *Module) serve(ctx *framework.Context, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m.logger.Debug("health check endpoint hit", "remote_addr", r.RemoteAddr)

	rep := Build(ctx.Bundles())
	code := http.StatusOK
	if rep.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		m.logger.Debug("writing health report", "error", err)
	}
}

// Build summarizes bundles. The status is "ok" when every bundle is
// active and "degraded" otherwise.
func Build(bundles []*framework.Bundle) Report {
	rep := Report{Status: "ok", Bundles: make([]BundleStatus, 0, len(bundles))}
	for _, b := range bundles {
		st := b.State()
		if st != framework.StateActive {
			rep.Status = "degraded"
		}
		rep.Bundles = append(rep.Bundles, BundleStatus{ID: b.ID(), Origin: b.Origin(), State: st.String()})
	}
	return rep
}

func (m *Module) Stop(*framework.Context) error {
	if m.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := m.srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutting down health check server")
	}
	return nil
}
