package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/middleware/trace"
)

const (
	tmplIndex       = "index.html"
	tmplSummary     = "summary"
	tmplConfigError = "config_error.html"
	tmplError       = "error.html"
)

type breakdownRow struct {
	Name    string
	Amount  string
	Percent string
	Color   string
}

type summaryView struct {
	Budget            string
	Columns           []string
	Rows              [][]string
	Total             string
	Remaining         string
	RemainingNegative bool
	Breakdown         []breakdownRow
	Chart             *PieChart
	Error             string
	// OOB marks the section for an out-of-band swap in a form response.
	OOB bool
}

type formView struct {
	Today      string
	Categories []string
	Budget     string
}

type indexView struct {
	Budget     string
	BudgetStep string
	Currency   string
	Form       formView
	Summary    summaryView
}

// requireConfigured short-circuits every page with the configuration error
// when the server is halted, before any worksheet access.
func (s *Server) requireConfigured(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.SetupErr == nil {
			next.ServeHTTP(w, r)
			return
		}
		msg := s.opts.SetupErr.Error()
		if isHTMX(r) || s.templates == nil {
			ServiceUnavailableError(msg).Write(w)
			return
		}
		var buf bytes.Buffer
		if err := s.templates.ExecuteTemplate(&buf, tmplConfigError, struct{ Message string }{msg}); err != nil {
			ServiceUnavailableError(msg).Write(w)
			return
		}
		NewHTMXResponse().Status(http.StatusServiceUnavailable).BodyHTML(buf.String()).Write(w)
	})
}

// loadSummary re-reads the whole worksheet and computes the figures for budget.
func (s *Server) loadSummary(ctx context.Context, budget decimal.Decimal) (summaryView, error) {
	logger := applog.FromContext(ctx)
	start := time.Now()
	tbl, err := s.ws.ListExpenses(ctx)
	if err != nil {
		return summaryView{}, err
	}
	sum := core.Summarize(tbl, budget)
	logger.DebugContext(ctx, "Worksheet loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldRows, sum.Rows,
		applog.FieldDuration, time.Since(start).Milliseconds())

	v := summaryView{
		Budget:            budget.String(),
		Columns:           tbl.Columns,
		Rows:              tbl.Rows,
		Total:             s.money.Format(sum.TotalSpent),
		Remaining:         s.money.Format(sum.Remaining),
		RemainingNegative: sum.Remaining.IsNegative(),
	}
	for i, c := range sum.Breakdown {
		v.Breakdown = append(v.Breakdown, breakdownRow{
			Name:    c.Name,
			Amount:  s.money.Format(c.Amount),
			Percent: formatPercent(c.Percent),
			Color:   colorAt(i),
		})
	}
	if sum.HasChart() {
		chart := buildPieChart(sum.Breakdown)
		v.Chart = &chart
	}
	return v, nil
}

func (s *Server) render(ctx context.Context, name string, data any) ([]byte, error) {
	if s.templates == nil {
		return nil, errors.New("templates not loaded")
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Template execution failed",
			applog.FieldOperation, applog.OpRender,
			applog.FieldErrorType, applog.ErrorTypeInternal,
			"template", name,
			applog.FieldError, err)
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	budget := ParseBudget(r.URL.Query(), s.opts.DefaultBudget)
	summary, err := s.loadSummary(ctx, budget)
	if err != nil {
		logger.ErrorContext(ctx, "Summary load failed",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldError, err)
		s.writeErrorPage(w, r, "Could not read the expense sheet", err)
		return
	}

	data := indexView{
		Budget:     budget.String(),
		BudgetStep: s.opts.BudgetStep.String(),
		Currency:   s.opts.CurrencySymbol,
		Form: formView{
			Today:      core.Today(s.opts.Now()).ISO(),
			Categories: core.Categories,
			Budget:     budget.String(),
		},
		Summary: summary,
	}
	body, err := s.render(ctx, tmplIndex, data)
	if err != nil {
		InternalServerError("Could not render the page").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(string(body)).Write(w)
}

// writeErrorPage is the generic failure surface: the render pass stops and
// the cause is shown.
func (s *Server) writeErrorPage(w http.ResponseWriter, r *http.Request, title string, cause error) {
	if !isHTMX(r) {
		data := struct{ Title, Detail string }{title, cause.Error()}
		if body, err := s.render(r.Context(), tmplError, data); err == nil {
			NewHTMXResponse().Status(http.StatusInternalServerError).BodyHTML(string(body)).Write(w)
			return
		}
	}
	InternalServerError(title + ": " + cause.Error()).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	budget := ParseBudget(r.URL.Query(), s.opts.DefaultBudget)

	summary, err := s.loadSummary(ctx, budget)
	status := http.StatusOK
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Summary load failed",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldError, err)
		summary = summaryView{Budget: budget.String(), Error: err.Error()}
		status = http.StatusInternalServerError
	}
	body, err := s.render(ctx, tmplSummary, summary)
	if err != nil {
		InternalServerError("Could not render the summary").Write(w)
		return
	}
	NewHTMXResponse().Status(status).BodyHTML(string(body)).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	exp, err := ParseExpenseForm(r.PostForm, core.Today(s.opts.Now()))
	if err != nil {
		logger.InfoContext(ctx, "Expense rejected",
			applog.FieldErrorType, applog.ErrorTypeValidation,
			applog.FieldError, err)
		msg := formErrorMessage(err)
		UnprocessableEntityError(msg).TriggerErrorNotification(msg).Write(w)
		return
	}
	budget := ParseBudget(r.PostForm, s.opts.DefaultBudget)

	start := time.Now()
	ref, err := s.ws.Append(ctx, exp)
	if err != nil {
		fields := applog.NewFields().
			WithOperation(applog.OpAppend).
			WithExpense(exp.Date.ISO(), exp.Category, exp.Amount.String()).
			WithError(err)
		logger.ErrorContext(ctx, "Expense append failed", fields.ToSlice()...)
		notice := "Could not save the expense"
		if id := trace.GetRequestID(ctx); id != "" {
			notice += " (request " + id + ")"
		}
		InternalServerError(notice+": "+err.Error()).TriggerErrorNotification(notice).Write(w)
		return
	}
	logger.InfoContext(ctx, "Expense appended",
		applog.FieldOperation, applog.OpAppend,
		applog.FieldSheetsRef, ref,
		applog.FieldCategory, exp.Category,
		applog.FieldDuration, time.Since(start).Milliseconds())

	if !isHTMX(r) {
		http.Redirect(w, r, "/?"+url.Values{fieldBudget: {budget.String()}}.Encode(), http.StatusSeeOther)
		return
	}

	// Re-read the sheet so the new row shows up in the same response.
	summary, err := s.loadSummary(ctx, budget)
	if err != nil {
		logger.ErrorContext(ctx, "Summary reload failed",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldError, err)
		summary = summaryView{Budget: budget.String(), Error: err.Error()}
	}
	summary.OOB = true

	var body bytes.Buffer
	body.WriteString(`<div class="success">Expense added to the sheet.</div>`)
	if out, err := s.render(ctx, tmplSummary, summary); err == nil {
		body.Write(out)
	}
	NewHTMXResponse().
		TriggerExpenseCreated(ref).
		TriggerFormReset().
		TriggerSuccessNotification("Expense added to the sheet").
		BodyHTML(body.String()).
		Write(w)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Append rate limit exceeded",
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	msg := "Too many submissions, wait a minute and try again"
	TooManyRequestsError(msg).TriggerErrorNotification(msg).Write(w)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":               "ok",
		"timestamp":            time.Now().Format(time.RFC3339),
		"uptime":               time.Since(s.started).String(),
		"rate_limited_clients": s.limiter.ActiveClients(),
	})
}

// opened is implemented by worksheet handles that open lazily.
type opened interface {
	Opened() bool
}

// handleReady reports whether the app can serve pages. It does not touch the
// worksheet; whether it has been opened yet is informational.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]string{}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.opts.SetupErr != nil {
		checks["configuration"] = "failed: " + s.opts.SetupErr.Error()
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["configuration"] = "ok"
	}

	if o, ok := s.ws.(opened); ok {
		if o.Opened() {
			checks["worksheet"] = "open"
		} else {
			checks["worksheet"] = "not opened yet"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": status,
		"checks": checks,
	})
}
