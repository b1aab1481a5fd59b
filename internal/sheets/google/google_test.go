package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"lavish/internal/export"
	"lavish/internal/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSheets struct {
	mu       sync.Mutex
	calls    []string
	written  [][]any
	inputOpt string
	failOn   string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var call string
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
		call = "clear"
	case r.Method == http.MethodPut:
		call = "update"
		var body struct {
			Values [][]any `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.written = body.Values
		f.inputOpt = r.URL.Query().Get("valueInputOption")
	default:
		http.NotFound(w, r)
		return
	}
	f.calls = append(f.calls, call)

	if call == f.failOn {
		http.Error(w, `{"error":{"code":500,"message":"boom"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{}`))
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), Config{
		SpreadsheetID: "sheet-id",
		Endpoint:      srv.URL + "/",
		HTTPClient:    srv.Client(),
	}, log.Discard())
	require.NoError(t, err)
	return c
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{}, log.Discard())
	require.Error(t, err)
	assert.Equal(t, "missing GOOGLE_SPREADSHEET_ID", err.Error())
}

func TestNewRequiresCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "x"}, log.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing service account credentials")
}

func TestNewMissingCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "x", ServiceAccountFile: t.TempDir() + "/nope.json"}, log.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read service account file")
}

func TestReplaceClearsThenWrites(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)
	assert.Equal(t, "Transactions", c.sheetName)

	rows := []export.Row{
		{Date: "3/1/2024", Description: "Salary", Amount: 2000, Type: "income"},
		{Date: "3/2/2024", Description: "Coffee", Amount: 4.5, Type: "expense"},
	}
	require.NoError(t, c.Replace(context.Background(), rows))

	assert.Equal(t, []string{"clear", "update"}, fake.calls)
	assert.Equal(t, "RAW", fake.inputOpt)
	require.Len(t, fake.written, 3)
	assert.Equal(t, []any{"Date", "Description", "Amount", "Type"}, fake.written[0])
	assert.Equal(t, []any{"3/2/2024", "Coffee", 4.5, "expense"}, fake.written[2])
}

func TestReplaceEmptyLedgerWritesHeaderOnly(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	require.NoError(t, c.Replace(context.Background(), nil))
	assert.Len(t, fake.written, 1)
}

func TestReplaceStopsWhenClearFails(t *testing.T) {
	fake := &fakeSheets{failOn: "clear"}
	c := newTestClient(t, fake)

	err := c.Replace(context.Background(), []export.Row{{Description: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear sheet")
	assert.Equal(t, []string{"clear"}, fake.calls)
}
