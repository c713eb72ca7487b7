// Package server exposes the loan calculator over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/loan-payoff/internal/calculator"
	"github.com/iwvelando/loan-payoff/pkg/constants"
	"github.com/iwvelando/loan-payoff/pkg/loans"
	"github.com/iwvelando/loan-payoff/pkg/mathutil"
	"github.com/iwvelando/loan-payoff/pkg/output"
	"github.com/iwvelando/loan-payoff/pkg/validation"
	"go.uber.org/zap"
)

// Error kinds reported in the "kind" field of error responses.
const (
	kindInvalidInput        = "invalid_input"
	kindInsufficientPayment = "insufficient_payment"
	kindScheduleIncomplete  = "schedule_incomplete"
	kindRequestTooLarge     = "request_too_large"
	kindRateLimited         = "rate_limited"
	kindInternal            = "internal"
)

type handler struct {
	logger         *zap.Logger
	calc           *calculator.Calculator
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the schedule API.
func NewHandler(logger *zap.Logger, calc *calculator.Calculator, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:         logger,
		calc:           calc,
		maxRequestSize: maxRequestSize,
		version:        trimmedVersion,
	}

	mux := http.NewServeMux()

	// Full analysis of one loan as JSON
	mux.HandleFunc("/api/schedule", h.handleSchedule)

	// One schedule of a loan as CSV
	mux.HandleFunc("/api/schedule/csv", h.handleScheduleCSV)

	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/healthz", h.handleHealth)

	return mux
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}

	result, err := h.calc.Calculate(r.Context(), req)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	h.logger.Info("schedule calculated",
		zap.String("op", op),
		zap.String("loan", req.Name),
		zap.Int("basePeriods", result.Base.Periods()),
		zap.Int("prepaymentPeriods", result.Prepayment.Periods()),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, result.Rounded())
}

func (h *handler) handleScheduleCSV(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScheduleCSV"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("schedule")
	if name == "" {
		name = constants.ScheduleBase
	}
	if err := validation.ValidateScheduleName(name); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, kindInvalidInput, err.Error(), op)
		return
	}

	req, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}

	result, err := h.calc.Calculate(r.Context(), req)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	schedule := result.Schedule(name)
	if schedule == nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, kindInvalidInput,
			"request has no extra payments, so there is no prepayment schedule", op)
		return
	}

	body, err := output.CsvString(schedule)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, kindInternal,
			fmt.Sprintf("failed to render schedule: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		h.logger.Error("failed to write CSV response", zap.String("op", op), zap.Error(err))
	}
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

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

// decodeRequest reads a JSON Request body. On failure the error response has
// already been written.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, op string) (calculator.Request, bool) {
	var req calculator.Request

	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge, kindRequestTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return req, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, kindInvalidInput,
			fmt.Sprintf("failed to decode request: %v", err), op)
		return req, false
	}
	if decoder.More() {
		h.respondErrorWithOp(w, http.StatusBadRequest, kindInvalidInput,
			"request body must contain a single JSON object", op)
		return req, false
	}
	return req, true
}

// respondCalculationError maps engine errors onto status codes, carrying the
// numbers a client needs to fix its request.
func (h *handler) respondCalculationError(w http.ResponseWriter, err error, op string) {
	var (
		invalid      *loans.InvalidInputError
		insufficient *loans.InsufficientPaymentError
		incomplete   *loans.ScheduleIncompleteError
	)

	switch {
	case errors.As(err, &invalid):
		h.respond(w, http.StatusBadRequest, op, err, map[string]interface{}{
			"error": err.Error(),
			"kind":  kindInvalidInput,
			"field": invalid.Field,
			"value": invalid.Value,
		})
	case errors.Is(err, loans.ErrInvalidInput):
		h.respond(w, http.StatusBadRequest, op, err, map[string]interface{}{
			"error": err.Error(),
			"kind":  kindInvalidInput,
		})
	case errors.As(err, &insufficient):
		h.respond(w, http.StatusUnprocessableEntity, op, err, map[string]interface{}{
			"error":            err.Error(),
			"kind":             kindInsufficientPayment,
			"payment":          mathutil.Round(insufficient.Payment),
			"interestOnly":     mathutil.Round(insufficient.InterestOnly),
			"minimumPayment":   mathutil.Round(insufficient.MinimumPayment),
			"remainingBalance": mathutil.Round(insufficient.RemainingBalance),
			"periods":          insufficient.Periods,
		})
	case errors.As(err, &incomplete):
		h.respond(w, http.StatusUnprocessableEntity, op, err, map[string]interface{}{
			"error":            err.Error(),
			"kind":             kindScheduleIncomplete,
			"scenario":         incomplete.Scenario,
			"remainingBalance": mathutil.Round(incomplete.RemainingBalance),
			"periods":          incomplete.Periods,
		})
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, kindInternal, err.Error(), op)
	}
}

func (h *handler) respond(w http.ResponseWriter, status int, op string, err error, payload map[string]interface{}) {
	h.logger.Warn("schedule request rejected",
		zap.String("op", op),
		zap.Int("status", status),
		zap.Error(err),
	)
	h.writeJSON(w, status, payload)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, kind, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("schedule request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	} else {
		h.logger.Warn("schedule request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]interface{}{"error": msg, "kind": kind})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
