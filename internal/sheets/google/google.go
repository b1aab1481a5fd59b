// Package google mirrors the ledger into a Google Sheets tab.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"lavish/internal/export"
	"lavish/internal/log"
	ports "lavish/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var header = []any{"Date", "Description", "Amount", "Type"}

type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string

	// Endpoint and HTTPClient replace the Google endpoint and credentials;
	// used against fakes.
	Endpoint   string
	HTTPClient *http.Client
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

var _ ports.LedgerMirror = (*Client)(nil)

// New creates a Sheets mirror authenticated with a service account.
// Credentials come from cfg, falling back to GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentSheets)

	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Transactions"
	}

	opts, err := serviceOptions(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	logger.InfoContext(ctx, "Google Sheets mirror ready", "sheet", sheetName)
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

func serviceOptions(ctx context.Context, cfg Config, logger *log.Logger) ([]goption.ClientOption, error) {
	if cfg.HTTPClient != nil {
		opts := []goption.ClientOption{goption.WithHTTPClient(cfg.HTTPClient)}
		if cfg.Endpoint != "" {
			opts = append(opts, goption.WithEndpoint(cfg.Endpoint))
		}
		return opts, nil
	}

	serviceAccountJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(cfg.ServiceAccountFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		logger.DebugContext(ctx, "Using inline service account credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		logger.DebugContext(ctx, "Reading service account credentials", "path", serviceAccountFile)
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	opts := []goption.ClientOption{
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, goption.WithEndpoint(cfg.Endpoint))
	}
	return opts, nil
}

// Replace clears columns A:D of the sheet and writes a header row followed
// by rows.
func (c *Client) Replace(ctx context.Context, rows []export.Row) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:D", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.sheetName, err)
	}

	values := make([][]any, 0, len(rows)+1)
	values = append(values, header)
	for _, r := range rows {
		values = append(values, []any{r.Date, r.Description, r.Amount, r.Type})
	}

	writeRange := fmt.Sprintf("%s!A1:D%d", c.sheetName, len(values))
	vr := &gsheet.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", c.sheetName, err)
	}

	c.logger.InfoContext(ctx, "Mirrored ledger to Google Sheets",
		log.FieldOperation, log.OpMirror, log.FieldCount, len(rows), "range", writeRange)
	return nil
}
