package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/iwvelando/tokenomics-planner/internal/config"
	"github.com/iwvelando/tokenomics-planner/internal/planner"
	"github.com/iwvelando/tokenomics-planner/internal/schedule"
	"github.com/iwvelando/tokenomics-planner/pkg/constants"
	"github.com/iwvelando/tokenomics-planner/pkg/output"
	"github.com/iwvelando/tokenomics-planner/pkg/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	metrics "github.com/slok/go-http-metrics/metrics/prometheus"
	metricsmiddleware "github.com/slok/go-http-metrics/middleware"
	middlewarestd "github.com/slok/go-http-metrics/middleware/std"
	"go.uber.org/zap"
)

// RequestIDHeader carries the id assigned to every API request.
const RequestIDHeader = "X-Request-ID"

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	horizon     int
	metrics     *plannerMetrics
	upgrader    websocket.Upgrader
}

// Option customizes a handler.
type Option func(*handler)

// WithHorizonMonths sets the schedule horizon used when a request does not
// name one.
func WithHorizonMonths(months int) Option {
	return func(h *handler) {
		if months > 0 {
			h.horizon = months
		}
	}
}

// NewHandler constructs the HTTP handler that serves the planner API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string, opts ...Option) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = constants.DefaultVersion
	}

	h := &handler{
		logger:      logger,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
		horizon:     constants.DefaultHorizonMonths,
		metrics:     newPlannerMetrics(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(h)
	}

	api := http.NewServeMux()

	// Default plan for a fresh editor
	api.HandleFunc("/api/defaults", h.handleDefaults)

	// Full plan submitted as a document
	api.HandleFunc("/api/simulate", h.handleSimulate)

	// Named edits applied to a plan
	api.HandleFunc("/api/planner/edit", h.handleEdit)

	// Plan serialization for downloads
	api.HandleFunc("/api/export", h.handleExport)

	// Version endpoint for UI metadata
	api.HandleFunc("/api/version", h.handleVersion)

	// This hooks https://github.com/slok/go-http-metrics to the API routes.
	mm := metricsmiddleware.New(metricsmiddleware.Config{
		Recorder: metrics.NewRecorder(metrics.Config{Registry: h.metrics.registry}),
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", h.withRequestID(middlewarestd.Handler("", mm, api)))
	// Live sessions are long-lived and are counted by the session gauge instead.
	mux.Handle("/api/planner/live", h.withRequestID(http.HandlerFunc(h.handleLive)))
	mux.Handle("/metrics", promhttp.HandlerFor(h.metrics.registry, promhttp.HandlerOpts{}))

	return mux
}

// planResponse is the body returned for every computed plan.
type planResponse struct {
	planner.Snapshot
	Warnings       []string `json:"warnings"`
	ConfigWarnings []string `json:"configWarnings,omitempty"`
	CSV            string   `json:"csv"`
	Duration       string   `json:"duration"`
	RequestID      string   `json:"requestId,omitempty"`
}

// editRequest is the body of /api/planner/edit.
type editRequest struct {
	State         planner.State  `json:"state"`
	Edits         []planner.Edit `json:"edits"`
	HorizonMonths int            `json:"horizonMonths,omitempty"`
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	h.respondPlan(w, r, planner.New(), h.horizon, nil, start, "server.handleDefaults")
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleSimulate"
	start := time.Now()

	doc := config.FromState(planner.New(), 0)
	if !h.decodeBody(w, r, &doc, op) {
		return
	}
	if err := validation.ValidateHorizon(doc.Schedule.HorizonMonths); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	horizon := h.horizon
	if doc.Schedule.HorizonMonths > 0 {
		horizon = doc.Schedule.HorizonMonths
	}
	doc.Schedule.HorizonMonths = horizon

	h.respondPlan(w, r, doc.State(), horizon, doc.Warnings(), start, op)
}

func (h *handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleEdit"
	start := time.Now()

	req := editRequest{State: planner.New()}
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	if err := validation.ValidateHorizon(req.HorizonMonths); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	state := req.State.Sanitize()
	for i, edit := range req.Edits {
		next, err := state.Apply(edit)
		h.metrics.observeEdit(edit.Op, err)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("edit %d: %v", i, err), op)
			return
		}
		state = next
	}

	horizon := h.horizon
	if req.HorizonMonths > 0 {
		horizon = req.HorizonMonths
	}
	h.respondPlan(w, r, state, horizon, nil, start, op)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleExport"

	doc := config.FromState(planner.New(), h.horizon)
	if !h.decodeBody(w, r, &doc, op) {
		return
	}
	if doc.Schedule.HorizonMonths == 0 {
		doc.Schedule.HorizonMonths = h.horizon
	}

	var buf bytes.Buffer
	if err := doc.Export(&buf); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": buf.String(),
	})
}

// decodeBody decodes a bounded JSON request body into dst, which may hold
// defaults for absent fields. It writes the error response and returns false
// on failure.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %s", humanize.IBytes(uint64(h.maxBodySize))), op)
		case errors.Is(err, io.EOF):
			h.respondErrorWithOp(w, http.StatusBadRequest, "request body is empty", op)
		default:
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		}
		return false
	}
	return true
}

func (h *handler) compute(state planner.State, horizon int, source string) planner.Snapshot {
	snap := state.Compute(schedule.NewSimulator(h.logger, horizon))
	h.metrics.observeResult(source, snap.Result)
	return snap
}

func (h *handler) respondPlan(w http.ResponseWriter, r *http.Request, state planner.State, horizon int, configWarnings []string, start time.Time, op string) {
	snap := h.compute(state, horizon, op)
	elapsed := time.Since(start)

	warnings := snap.Result.Metrics.WarningMessages()
	if warnings == nil {
		warnings = []string{}
	}

	response := planResponse{
		Snapshot:       snap,
		Warnings:       warnings,
		ConfigWarnings: configWarnings,
		CSV:            output.CsvString(snap),
		Duration:       elapsed.String(),
		RequestID:      r.Header.Get(RequestIDHeader),
	}

	h.logger.Info("plan computed",
		zap.String("op", op),
		zap.String("requestId", response.RequestID),
		zap.Int("months", snap.Result.HorizonMonths()),
		zap.Int("warnings", len(warnings)),
		zap.Bool("overAllocated", snap.OverAllocated),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Warn("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload fully before writing the header; an encoding
// failure is sent as a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Int("status", status),
			zap.Error(err),
		)
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(map[string]string{"error": "failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
