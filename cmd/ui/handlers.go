package main

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trade-tracker-go/internal/intake"
	"trade-tracker-go/internal/models"
	"trade-tracker-go/internal/store"
	"trade-tracker-go/internal/tradecsv"
	"trade-tracker-go/internal/view"
)

// SuccessMessage acknowledges a submission. The table rendered with it still
// shows the set loaded before the append.
const SuccessMessage = "Trade added! Please reload the app to see the updated table."

// TradeHandler holds dependencies for the page endpoints.
type TradeHandler struct {
	log      *zap.Logger
	store    store.Store
	renderer *view.Renderer
	limiter  *rate.Limiter
	now      func() time.Time
}

// NewTradeHandler creates a new TradeHandler. A nil limiter disables throttling.
func NewTradeHandler(log *zap.Logger, s store.Store, renderer *view.Renderer, limiter *rate.Limiter) *TradeHandler {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &TradeHandler{
		log:      log,
		store:    s,
		renderer: renderer,
		limiter:  limiter,
		now:      time.Now,
	}
}

// NewSubmitLimiter builds the submission limiter. A non-positive rate is unlimited.
func NewSubmitLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (h *TradeHandler) today() models.Date { return models.DateOf(h.now()) }

// IndexHandler renders the table, the entry form and the download link.
func (h *TradeHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, view.Page{
		Trades: h.store.Load(),
		Form:   intake.Defaults(h.today()),
	})
}

// SubmitHandler appends the submitted trade and re-renders the page.
func (h *TradeHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		h.log.Warn("Submission rate limit exceeded")
		http.Error(w, "Too many submissions, try again shortly", http.StatusTooManyRequests)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	// The table is loaded before the append, as on any other render.
	trades := h.store.Load()

	today := h.today()
	trade := intake.Parse(r.PostForm, today).Trade()
	if err := h.store.Append(trade); err != nil {
		h.log.Error("Failed to save trade", zap.Error(err))
		http.Error(w, "Failed to save trade", http.StatusInternalServerError)
		return
	}
	h.log.Info("Trade submitted",
		zap.String("symbol", trade.Symbol),
		zap.String("result", trade.Result.String()),
		zap.Int("days_held", trade.DaysHeld),
	)

	h.render(w, view.Page{
		Trades:  trades,
		Form:    intake.Defaults(today),
		Success: SuccessMessage,
	})
}

// ExportHandler returns the loaded trade set as a CSV attachment.
func (h *TradeHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	data, err := tradecsv.Marshal(h.store.Load())
	if err != nil {
		h.log.Error("Failed to encode trade log", zap.Error(err))
		http.Error(w, "Failed to export trades", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", tradecsv.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tradecsv.FileName))
	w.Write(data)
}

// HealthHandler reports liveness.
func (h *TradeHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// render buffers the page so a template error can still produce a 500.
func (h *TradeHandler) render(w http.ResponseWriter, p view.Page) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, p); err != nil {
		h.log.Error("Failed to render page", zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
