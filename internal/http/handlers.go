package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lavish/internal/ledger"
	"lavish/internal/log"
)

// pageData feeds both index.html and the ledger_view partial.
type pageData struct {
	ledger.View
	ChartJSON      string
	VoiceAvailable bool
}

func (s *Server) pageData(month string) pageData {
	view := s.views.Get(month)
	chart, err := json.Marshal(view.Chart)
	if err != nil {
		chart = []byte("{}")
	}
	return pageData{
		View:           view,
		ChartJSON:      string(chart),
		VoiceAvailable: s.transcriber.Available(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).Round(time.Second).String(),
	})
}

// handleReady checks that the templates are loaded and the ledger is open.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status, code := "ready", http.StatusOK
	checks := map[string]any{}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}
	if s.store == nil {
		checks["ledger"] = "failed: not opened"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["ledger"] = map[string]any{"status": "ok", "records": s.store.Len()}
	}
	checks["voice"] = map[string]bool{"available": s.transcriber.Available()}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	rateMetrics := s.rateLimiter.GetMetrics()
	hits, misses := s.views.Stats()

	metric := func(name, kind, help string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, kind, name, value)
	}
	metric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric("http_requests_failed_total", "counter", "HTTP requests answered with 5xx", traceMetrics.FailedRequests)
	metric("http_response_time_avg_microseconds", "gauge", "Running mean response time", traceMetrics.AverageResponseTime)
	metric("ledger_records", "gauge", "Records currently in the ledger", s.store.Len())
	metric("ledger_records_added_total", "counter", "Records added", s.appMetrics.recordsAdded.Load())
	metric("ledger_records_removed_total", "counter", "Records removed", s.appMetrics.recordsRemoved.Load())
	metric("ledger_adds_rejected_total", "counter", "Add requests rejected by validation", s.appMetrics.rejectedAdds.Load())
	metric("exports_total", "counter", "Export files produced", s.appMetrics.exports.Load())
	metric("voice_transcriptions_total", "counter", "Successful voice transcriptions", s.appMetrics.voiceTranscripts.Load())
	metric("voice_failures_total", "counter", "Failed voice transcriptions", s.appMetrics.voiceFailures.Load())
	metric("view_cache_hits_total", "counter", "View cache hits", hits)
	metric("view_cache_misses_total", "counter", "View cache misses", misses)
	metric("rate_limit_hits_total", "counter", "Requests rejected by the rate limiter", rateMetrics.TotalHits)
	metric("active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateMetrics.ClientCount)
	metric("suspicious_requests_total", "counter", "Requests matching probe patterns", s.securityDetector.SuspiciousCount())
	metric("uptime_seconds", "gauge", "Application uptime in seconds", fmt.Sprintf("%.0f", time.Since(s.appMetrics.uptime).Seconds()))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonthFilter(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", s.pageData(month)); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err, log.FieldComponent, log.ComponentTemplate)
		InternalServerError("Could not render page").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleLedgerView renders the list, summary, chart and filter partial for
// the selected month.
func (s *Server) handleLedgerView(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonthFilter(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	s.writeLedgerView(w, r, month, NewHTMXResponse())
}

// writeLedgerView renders the partial into b and sends it.
func (s *Server) writeLedgerView(w http.ResponseWriter, r *http.Request, month string, b *HTMXResponseBuilder) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "ledger_view", s.pageData(month)); err != nil {
		s.logger.ErrorContext(r.Context(), "Ledger view template execution failed",
			log.FieldError, err, log.FieldMonth, month, log.FieldComponent, log.ComponentTemplate)
		InternalServerError("Could not render ledger").Write(w)
		return
	}
	b.Header("Content-Type", "text/html; charset=utf-8").Body(buf.Bytes()).Write(w)
}
