// Package session holds the process-lived handle to the worksheet: the
// resolved credential, the sheet key and, once the first interaction has
// opened it, the worksheet itself.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"expensetracker/internal/core"
	"expensetracker/internal/credentials"
	applog "expensetracker/internal/log"
	"expensetracker/internal/sheets"
	"expensetracker/internal/sheets/google"
)

// OpenFunc authenticates with cred and opens the worksheet behind key.
type OpenFunc func(ctx context.Context, cred *credentials.Credential, key string) (sheets.Worksheet, error)

// GoogleOpener opens the first worksheet of the spreadsheet through the
// Sheets and Drive APIs.
func GoogleOpener(ctx context.Context, cred *credentials.Credential, key string) (sheets.Worksheet, error) {
	svc, err := google.Authenticate(ctx, cred)
	if err != nil {
		return nil, err
	}
	return google.OpenWorksheet(ctx, svc, key)
}

// Session opens the worksheet lazily and reuses it for the life of the
// process. Concurrent first callers share a single open; a failed open is
// not remembered, so the next interaction tries again.
type Session struct {
	cred   *credentials.Credential
	key    string
	open   OpenFunc
	logger *applog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	ws    sheets.Worksheet
}

var _ sheets.Worksheet = (*Session)(nil)

func New(cred *credentials.Credential, key string, open OpenFunc, logger *applog.Logger) *Session {
	if open == nil {
		open = GoogleOpener
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Session{
		cred:   cred,
		key:    key,
		open:   open,
		logger: logger.WithComponent(applog.ComponentSession),
	}
}

// Opened reports whether the worksheet has been opened successfully.
func (s *Session) Opened() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws != nil
}

// Worksheet returns the memoized worksheet, opening it on first use.
func (s *Session) Worksheet(ctx context.Context) (sheets.Worksheet, error) {
	s.mu.RLock()
	ws := s.ws
	s.mu.RUnlock()
	if ws != nil {
		return ws, nil
	}

	v, err, shared := s.group.Do("open", func() (any, error) {
		s.mu.RLock()
		ws := s.ws
		s.mu.RUnlock()
		if ws != nil {
			return ws, nil
		}

		start := time.Now()
		ws, err := s.open(ctx, s.cred, s.key)
		if err != nil {
			s.logger.WarnContext(ctx, "Worksheet open failed",
				applog.FieldOperation, applog.OpOpen,
				applog.FieldError, err,
				applog.FieldDuration, time.Since(start).Milliseconds())
			return nil, err
		}
		if ws == nil {
			return nil, errors.New("worksheet opener returned nothing")
		}

		s.mu.Lock()
		s.ws = ws
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "Worksheet ready",
			applog.FieldOperation, applog.OpOpen,
			applog.FieldSpreadsheet, s.key,
			applog.FieldDuration, time.Since(start).Milliseconds())
		return ws, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "Shared worksheet open", applog.FieldOperation, applog.OpOpen)
	}
	return v.(sheets.Worksheet), nil
}

func (s *Session) Append(ctx context.Context, e core.Expense) (string, error) {
	ws, err := s.Worksheet(ctx)
	if err != nil {
		return "", err
	}
	return ws.Append(ctx, e)
}

func (s *Session) ListExpenses(ctx context.Context) (core.Table, error) {
	ws, err := s.Worksheet(ctx)
	if err != nil {
		return core.Table{}, err
	}
	return ws.ListExpenses(ctx)
}
