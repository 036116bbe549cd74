package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/datetime"
	"github.com/iwvelando/loan-calculator/pkg/report"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const shutdownTimeout = 10 * time.Second

type handler struct {
	logger        *zap.Logger
	calc          *calculator.Calculator
	maxUploadSize int64
	version       string
	now           func() time.Time
}

// Options tune the handler returned by NewHandler.
type Options struct {
	MaxUploadSize int64
	Version       string
	// Limiter enables per-client rate limiting when non-nil.
	Limiter *RateLimiter
}

type compareRequest struct {
	Principal       float64 `json:"principal"`
	TermMonths      int     `json:"termMonths"`
	BaseRate        float64 `json:"baseRate"`
	AlternativeRate float64 `json:"alternativeRate"`
}

type offersRequest struct {
	Principal  float64 `json:"principal"`
	TermMonths int     `json:"termMonths"`
	Product    string  `json:"product"`
}

type scheduleRequest struct {
	amortization.LoanTerms
	StartMonth string `json:"startMonth"`
	Yearly     bool   `json:"yearly"`
}

type offersResponse struct {
	Product string                  `json:"product"`
	Offers  []calculator.OfferQuote `json:"offers"`
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, calc *calculator.Calculator, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		calc:          calc,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		now:           time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/emi", h.handleEMI)
	mux.HandleFunc("/api/affordability", h.handleAffordability)
	mux.HandleFunc("/api/compare", h.handleCompare)
	mux.HandleFunc("/api/tax", h.handleTax)
	mux.HandleFunc("/api/offers", h.handleOffers)
	mux.HandleFunc("/api/schedule", h.handleSchedule)
	mux.HandleFunc("/api/config", h.handleConfig)
	mux.HandleFunc("/api/version", h.handleVersion)

	var root http.Handler = mux
	if opts.Limiter != nil {
		root = rateLimitMiddleware(opts.Limiter, logger, root)
	}
	root = loggingMiddleware(logger, root)
	return requestIDMiddleware(root)
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "server.Run"),
			zap.String("address", addr),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server",
		zap.String("op", "server.Run"),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (h *handler) handleEMI(w http.ResponseWriter, r *http.Request) {
	var terms amortization.LoanTerms
	if !h.decodePost(w, r, &terms, "server.handleEMI") {
		return
	}
	h.writeJSON(w, http.StatusOK, h.calc.EMI(terms))
}

func (h *handler) handleAffordability(w http.ResponseWriter, r *http.Request) {
	var in amortization.AffordabilityInput
	if !h.decodePost(w, r, &in, "server.handleAffordability") {
		return
	}
	h.writeJSON(w, http.StatusOK, h.calc.Affordability(in))
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !h.decodePost(w, r, &req, "server.handleCompare") {
		return
	}
	h.writeJSON(w, http.StatusOK, h.calc.Compare(req.Principal, req.TermMonths, req.BaseRate, req.AlternativeRate))
}

func (h *handler) handleTax(w http.ResponseWriter, r *http.Request) {
	var in amortization.TaxSavingsInput
	if !h.decodePost(w, r, &in, "server.handleTax") {
		return
	}
	h.writeJSON(w, http.StatusOK, h.calc.TaxSavings(in))
}

func (h *handler) handleOffers(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOffers"
	var req offersRequest
	if !h.decodePost(w, r, &req, op) {
		return
	}

	quotes, err := h.calc.QuoteOffers(req.Principal, req.TermMonths, req.Product)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, offersResponse{Product: req.Product, Offers: quotes})
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	var req scheduleRequest
	if !h.decodePost(w, r, &req, op) {
		return
	}

	startMonth := strings.TrimSpace(req.StartMonth)
	if startMonth == "" {
		startMonth = datetime.CurrentMonth(h.now())
	}

	quote, err := h.calc.Schedule(req.LoanTerms, startMonth, req.Yearly)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	if r.URL.Query().Get("format") != "pdf" {
		h.writeJSON(w, http.StatusOK, quote)
		return
	}

	pdf, err := report.SchedulePDF("Loan Repayment Schedule", quote.Terms, quote.Result, quote.Payments, req.Yearly)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render PDF: %v", err), op)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="repayment-schedule.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.logger.Error("failed to write PDF response",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// handleConfig returns the active calculator configuration as YAML.
func (h *handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	data, err := yaml.Marshal(h.calc.Config())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfig")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
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

// decodePost enforces POST and the body size limit, then decodes the JSON
// body into dst. It writes the error response and returns false on failure.
func (h *handler) decodePost(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("calculator request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
