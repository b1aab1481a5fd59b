package http

import (
	"errors"
	"net/http"

	"lavish/internal/core"
	"lavish/internal/log"
)

// handleCreateTransaction is the page's add form. On success it answers with
// the refreshed ledger partial; invalid input yields a 422 fragment swapped
// into the form's error slot. An unreadable body is a 400, an oversized one
// a 413.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := parseEntryForm(w, r)
	if err != nil && !isValidationError(err) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(http.StatusRequestEntityTooLarge, "Request too large").Retarget("#form-error").Write(w)
			return
		}
		BadRequestError("Invalid form").Retarget("#form-error").Write(w)
		return
	}
	if err == nil {
		_, err = s.addEntry(r, in)
	}
	if err != nil {
		if isValidationError(err) {
			UnprocessableEntityError(validationMessage(err)).Retarget("#form-error").Write(w)
			return
		}
		InternalServerError("Could not save the transaction").Retarget("#form-error").Write(w)
		return
	}

	month, err := parseMonthFilter(r)
	if err != nil {
		month = core.AllMonths
	}
	b := NewHTMXResponse().
		TriggerLedgerChanged(s.store.Len()).
		TriggerFormReset().
		TriggerNotification(NotificationSuccess, "Transaction added")
	s.writeLedgerView(w, r, month, b)
}

// handleDeleteTransaction removes a record and re-renders the ledger. An
// unknown id leaves the ledger untouched.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseRecordID(r)
	if err != nil {
		BadRequestError("Invalid transaction id").Write(w)
		return
	}

	removed, err := s.store.Remove(r.Context(), id)
	if err != nil {
		fields := log.NewFields().WithError(err)
		fields[log.FieldRecordID] = id
		fields["error_type"] = log.ErrorTypeStorage
		s.logger.ErrorContext(r.Context(), "Remove failed", fields.ToSlice()...)
		InternalServerError("Could not delete the transaction").Write(w)
		return
	}

	b := NewHTMXResponse()
	if removed {
		s.appMetrics.recordsRemoved.Add(1)
		b.TriggerLedgerChanged(s.store.Len()).
			TriggerNotification(NotificationSuccess, "Transaction removed")
	} else {
		b.TriggerNotification(NotificationError, "Transaction not found")
	}
	month, err := parseMonthFilter(r)
	if err != nil {
		month = core.AllMonths
	}
	s.writeLedgerView(w, r, month, b)
}

// addEntry stores in and keeps the counters current.
func (s *Server) addEntry(r *http.Request, in entryInput) (core.Record, error) {
	rec, err := s.store.Add(r.Context(), in.Description, in.Amount, in.Type)
	switch {
	case err == nil:
		s.appMetrics.recordsAdded.Add(1)
	case isValidationError(err):
		s.appMetrics.rejectedAdds.Add(1)
		s.logger.WarnContext(r.Context(), "Transaction rejected",
			log.NewFields().WithError(err).WithOperation(log.OpAdd).ToSlice()...)
	default:
		fields := log.NewFields().WithError(err).WithOperation(log.OpAdd)
		fields["error_type"] = log.ErrorTypeStorage
		s.logger.ErrorContext(r.Context(), "Add failed", fields.ToSlice()...)
	}
	return rec, err
}

func (s *Server) handleAPIListTransactions(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonthFilter(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.store.ListFiltered(month))
}

func (s *Server) handleAPICreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := parseEntryJSON(r)
	if err != nil && !isValidationError(err) {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err == nil {
		var rec core.Record
		rec, err = s.addEntry(r, in)
		if err == nil {
			writeJSON(w, http.StatusCreated, rec)
			return
		}
	}
	if isValidationError(err) {
		writeJSONError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}
	writeJSONError(w, http.StatusInternalServerError, "Could not save the transaction")
}

type summaryJSON struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	sum := s.store.Summarize()
	writeJSON(w, http.StatusOK, summaryJSON{
		Income:  sum.Income.StringFixed(2),
		Expense: sum.Expense.StringFixed(2),
		Balance: sum.Balance.StringFixed(2),
	})
}

func (s *Server) handleAPIMonths(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.DistinctMonths())
}

func (s *Server) handleAPIChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Summarize().Chart())
}
