package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"lavish/internal/core"
)

const maxBodyBytes = 64 << 10

var errInvalidMonth = errors.New("month must be YYYY-MM or all")

// parseMonthFilter reads the month filter from the query or form. Missing
// means all.
func parseMonthFilter(r *http.Request) (string, error) {
	month := strings.TrimSpace(r.FormValue("month"))
	if month == "" || month == core.AllMonths {
		return core.AllMonths, nil
	}
	if !core.ValidMonthKey(month) {
		return "", errInvalidMonth
	}
	return month, nil
}

// entryInput is a transaction as submitted by the page or the API.
type entryInput struct {
	Description string
	Amount      float64
	Type        core.TxType
}

type entryJSON struct {
	Desc   string          `json:"desc"`
	Amount json.RawMessage `json:"amount"`
	Type   string          `json:"type"`
}

// parseEntryForm reads desc, amount and type form fields.
func parseEntryForm(w http.ResponseWriter, r *http.Request) (entryInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return entryInput{}, fmt.Errorf("parse form: %w", err)
	}
	return newEntry(r.PostForm.Get("desc"), r.PostForm.Get("amount"), r.PostForm.Get("type"))
}

// parseEntryJSON reads {"desc","amount","type"}; amount may be a number or a
// string.
func parseEntryJSON(r *http.Request) (entryInput, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return entryInput{}, fmt.Errorf("read body: %w", err)
	}
	var in entryJSON
	if err := json.Unmarshal(body, &in); err != nil {
		return entryInput{}, fmt.Errorf("decode body: %w", err)
	}
	amount := strings.Trim(string(in.Amount), `"`)
	return newEntry(in.Desc, amount, in.Type)
}

func newEntry(desc, amount, typ string) (entryInput, error) {
	in := entryInput{Description: sanitizeInput(desc)}
	if in.Description == "" {
		return in, core.ErrEmptyDescription
	}

	v, err := core.ParseAmount(amount)
	if err != nil {
		return in, err
	}
	in.Amount = v

	t, err := core.ParseTxType(typ)
	if err != nil {
		return in, err
	}
	in.Type = t
	return in, nil
}

func parseRecordID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// sanitizeInput trims and drops control characters other than tab.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// validationMessage turns a validation error into the text shown to the user.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyDescription):
		return "Please enter a description."
	case errors.Is(err, core.ErrInvalidAmount):
		return "Please enter a valid amount."
	case errors.Is(err, core.ErrInvalidType):
		return "Type must be income or expense."
	default:
		return "Invalid request."
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidType)
}
