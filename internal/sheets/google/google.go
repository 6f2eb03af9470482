package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expensetracker/internal/core"
	"expensetracker/internal/credentials"
	applog "expensetracker/internal/log"
	"expensetracker/internal/secrets"
	ports "expensetracker/internal/sheets"
)

// Scopes requested for the service account. Drive access is needed to look
// the spreadsheet up by its key.
var Scopes = []string{gsheet.SpreadsheetsScope, drive.DriveScope}

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

var (
	ErrSheetKeyMissing = errors.New("missing 'gsheet_key' in the secrets store (or set GSHEET_KEY locally)")
	ErrNotSpreadsheet  = errors.New("file is not a Google spreadsheet")
	ErrNoWorksheet     = errors.New("spreadsheet has no worksheets")
)

// Services is an authenticated pair of API clients sharing one token source.
type Services struct {
	Sheets *gsheet.Service
	Drive  *drive.Service
}

// Client is the handle to the one worksheet the app uses.
type Client struct {
	svc             *gsheet.Service
	spreadsheetID   string
	spreadsheetName string
	worksheet       string
}

// Ensure interface conformance
var _ ports.Worksheet = (*Client)(nil)

// Authenticate builds API clients from a service-account credential. The
// token source outlives ctx: it is created once and reused for the process.
func Authenticate(ctx context.Context, cred *credentials.Credential, scopes ...string) (*Services, error) {
	if cred == nil {
		return nil, credentials.ErrNotConfigured
	}
	if len(scopes) == 0 {
		scopes = Scopes
	}
	jwtConfig, err := googleoauth.JWTConfigFromJSON(cred.JSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	tokenCtx := context.WithoutCancel(ctx)
	httpClient := oauth2.NewClient(tokenCtx, jwtConfig.TokenSource(tokenCtx))

	svc, err := NewServices(ctx, goption.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Authenticated with service account",
		applog.FieldComponent, applog.ComponentSheets,
		"client_email", cred.ClientEmail,
		applog.FieldSource, string(cred.Source))
	return svc, nil
}

// NewServices creates the Sheets and Drive clients with the given options.
func NewServices(ctx context.Context, opts ...goption.ClientOption) (*Services, error) {
	sh, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	dr, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Services{Sheets: sh, Drive: dr}, nil
}

// ResolveSheetKey returns the spreadsheet key from the secrets store, or
// envValue (GSHEET_KEY) when the store has none.
func ResolveSheetKey(store secrets.Store, envValue string) (string, error) {
	if store != nil {
		if key, ok := store.String(secrets.KeySheetKey); ok {
			return key, nil
		}
	}
	if key := strings.TrimSpace(envValue); key != "" {
		return key, nil
	}
	return "", ErrSheetKeyMissing
}

// OpenWorksheet opens the first worksheet, by position, of the spreadsheet
// identified by key.
func OpenWorksheet(ctx context.Context, svc *Services, key string) (*Client, error) {
	if svc == nil || svc.Sheets == nil || svc.Drive == nil {
		return nil, errors.New("sheets service not initialized")
	}
	f, err := svc.Drive.Files.Get(key).
		Fields("id", "name", "mimeType").
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("look up spreadsheet %s: %w", key, err)
	}
	if f.MimeType != spreadsheetMimeType {
		return nil, fmt.Errorf("%w: %s has type %s", ErrNotSpreadsheet, key, f.MimeType)
	}

	ss, err := svc.Sheets.Spreadsheets.Get(key).
		Fields("sheets.properties(sheetId,title,index)").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet %s: %w", key, err)
	}
	title, err := firstWorksheet(ss.Sheets)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}

	slog.InfoContext(ctx, "Worksheet opened",
		applog.FieldComponent, applog.ComponentSheets,
		applog.FieldSpreadsheet, key,
		applog.FieldWorksheet, title)
	return &Client{
		svc:             svc.Sheets,
		spreadsheetID:   key,
		spreadsheetName: f.Name,
		worksheet:       title,
	}, nil
}

func firstWorksheet(sheets []*gsheet.Sheet) (string, error) {
	var first *gsheet.SheetProperties
	for _, s := range sheets {
		if s == nil || s.Properties == nil {
			continue
		}
		if first == nil || s.Properties.Index < first.Index {
			first = s.Properties
		}
	}
	if first == nil {
		return "", ErrNoWorksheet
	}
	return first.Title, nil
}

// SpreadsheetName returns the document's title as shown in Drive.
func (c *Client) SpreadsheetName() string { return c.spreadsheetName }

// Worksheet returns the title of the opened worksheet.
func (c *Client) Worksheet() string { return c.worksheet }

// Append writes one row after the last row. The amount goes out as a number
// and the date as YYYY-MM-DD text so neither depends on the sheet's locale.
func (c *Client) Append(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	vr := &gsheet.ValueRange{Values: [][]any{expenseRow(e)}}
	rng := quoteSheet(c.worksheet) + "!A1"
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", c.worksheet, err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}

// ListExpenses reads the whole worksheet. The first row is the header.
func (c *Client) ListExpenses(ctx context.Context) (core.Table, error) {
	if c.svc == nil {
		return core.Table{}, errors.New("sheets service not initialized")
	}
	rng := quoteSheet(c.worksheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return core.Table{}, fmt.Errorf("read %s: %w", rng, err)
	}
	return toTable(resp.Values), nil
}

// quoteSheet returns the sheet title in A1 notation quoting.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
