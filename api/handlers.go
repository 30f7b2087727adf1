package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/etnz/dca"
	"github.com/etnz/dca/date"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Handler serves the simulation and comparison endpoints.
type Handler struct {
	provider dca.Provider
	started  time.Time
}

// NewHandler returns a handler reading price histories from provider.
func NewHandler(provider dca.Provider) *Handler {
	return &Handler{provider: provider, started: time.Now()}
}

// CalculateRequest is the body of POST /api/calculate.
type CalculateRequest struct {
	Ticker    string           `json:"ticker"`
	Amount    *decimal.Decimal `json:"amount"` // per period, a number or a string
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Market    string           `json:"market,omitempty"` // tw when empty
}

// CalculateResponse is the body of a successful POST /api/calculate.
type CalculateResponse struct {
	Portfolio []dca.LedgerRow `json:"portfolio"`
	Summary   dca.Summary     `json:"summary"`
	Ticker    string          `json:"ticker"`
}

// CompareRequest is the body of POST /api/compare_trends.
type CompareRequest struct {
	Ticker1   string `json:"ticker1"`
	Market1   string `json:"market1,omitempty"`
	Ticker2   string `json:"ticker2"`
	Market2   string `json:"market2,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CompareResponse is the body of a successful POST /api/compare_trends.
type CompareResponse struct {
	Data        []dca.AlignedRow `json:"data"`
	Correlation dca.Correlation  `json:"correlation"`
	Ticker1     string           `json:"ticker1"`
	Ticker2     string           `json:"ticker2"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string    `json:"status"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Calculate handles POST /api/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ticker, err := resolve(req.Ticker, req.Market, "ticker", "market")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Amount == nil {
		writeError(w, r, &dca.InputError{Field: "amount", Constraint: "is required"})
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, r, &dca.InputError{Field: "amount", Constraint: "must be positive", Value: req.Amount})
		return
	}
	rng, err := between(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	hist, err := h.provider.History(r.Context(), ticker, rng, date.Monthly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sim, err := dca.Simulate(hist.Samples, dca.M(*req.Amount, hist.Currency))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CalculateResponse{
		Portfolio: sim.Ledger,
		Summary:   sim.Summary,
		Ticker:    ticker,
	})
}

// CompareTrends handles POST /api/compare_trends
func (h *Handler) CompareTrends(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ticker1, err := resolve(req.Ticker1, req.Market1, "ticker1", "market1")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ticker2, err := resolve(req.Ticker2, req.Market2, "ticker2", "market2")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rng, err := between(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// both series are fetched concurrently
	var hist1, hist2 *dca.History
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		hist1, err = h.provider.History(ctx, ticker1, rng, date.Daily)
		return err
	})
	g.Go(func() (err error) {
		hist2, err = h.provider.History(ctx, ticker2, rng, date.Daily)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, err)
		return
	}

	cmp, err := dca.Align(dca.Points(hist1.Samples), dca.Points(hist2.Samples))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CompareResponse{
		Data:        cmp.Rows,
		Correlation: cmp.Correlation,
		Ticker1:     ticker1,
		Ticker2:     ticker2,
	})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		UptimeSeconds: int64(now.Sub(h.started).Seconds()),
		Timestamp:     now,
	})
}

// decode reads the JSON body of r into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &dca.InputError{Field: "body", Constraint: "must be a valid JSON object", Value: err}
	}
	return nil
}

// resolve returns the fully qualified ticker of symbol on market.
// Errors name the request fields.
func resolve(symbol, market, symbolField, marketField string) (string, error) {
	m, err := dca.ParseMarket(market)
	if err != nil {
		return "", rename(err, marketField)
	}
	ticker, err := m.Ticker(symbol)
	if err != nil {
		return "", rename(err, symbolField)
	}
	return ticker, nil
}

// rename sets the field name of an InputError.
func rename(err error, field string) error {
	var ierr *dca.InputError
	if errors.As(err, &ierr) {
		return &dca.InputError{Field: field, Constraint: ierr.Constraint, Value: ierr.Value}
	}
	return err
}

// between parses the [start, end) request range.
func between(start, end string) (date.Range, error) {
	if start == "" {
		return date.Range{}, &dca.InputError{Field: "start_date", Constraint: "is required"}
	}
	if end == "" {
		return date.Range{}, &dca.InputError{Field: "end_date", Constraint: "is required"}
	}
	from, err := date.Parse(start)
	if err != nil {
		return date.Range{}, &dca.InputError{Field: "start_date", Constraint: "must be a YYYY-MM-DD date", Value: start}
	}
	until, err := date.Parse(end)
	if err != nil {
		return date.Range{}, &dca.InputError{Field: "end_date", Constraint: "must be a YYYY-MM-DD date", Value: end}
	}
	rng, err := date.Between(from, until)
	if err != nil {
		return date.Range{}, &dca.InputError{Field: "end_date", Constraint: "must be after start_date", Value: end}
	}
	return rng, nil
}

// status maps an error to its HTTP status code.
func status(err error) int {
	switch {
	case errors.Is(err, dca.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, dca.ErrNoData), errors.Is(err, dca.ErrNoOverlap):
		return http.StatusNotFound
	case errors.Is(err, dca.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := status(err)
	if code >= 500 {
		log.Error().Err(err).Str("request_id", GetRequestID(r.Context())).Msg("request failed")
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
