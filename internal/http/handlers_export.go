package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"lavish/internal/export"
	"lavish/internal/log"
	"lavish/internal/voice"
)

const maxAudioBytes = 10 << 20

// handleExport downloads the whole ledger. An empty ledger produces no file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	enc, err := export.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		BadRequestError("Unknown export format").Write(w)
		return
	}

	data, err := export.Export(s.store.All(), enc, s.exportOpts)
	if errors.Is(err, export.ErrNothingToExport) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Export failed", log.FieldError, err, log.FieldOperation, log.OpExport)
		InternalServerError("Could not export transactions").Write(w)
		return
	}

	s.appMetrics.exports.Add(1)
	w.Header().Set("Content-Type", enc.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(enc)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

type voiceResult struct {
	Text string `json:"text"`
}

// handleVoice transcribes the multipart "audio" upload into description text.
// It never touches the ledger.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if !s.transcriber.Available() {
		writeJSONError(w, http.StatusServiceUnavailable, voice.ErrUnavailable.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Missing audio upload")
		return
	}
	defer file.Close()

	text, err := s.transcriber.Transcribe(r.Context(), file, filepath.Base(header.Filename))
	switch {
	case err == nil:
		s.appMetrics.voiceTranscripts.Add(1)
		writeJSON(w, http.StatusOK, voiceResult{Text: text})
	case errors.Is(err, voice.ErrNoSpeech):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, voice.ErrUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.appMetrics.voiceFailures.Add(1)
		s.logger.ErrorContext(r.Context(), "Voice transcription failed",
			log.FieldError, err, log.FieldComponent, log.ComponentVoice, "error_type", log.ErrorTypeNetwork)
		writeJSONError(w, http.StatusBadGateway, "Transcription failed")
	}
}

func (s *Server) handleAPIVoiceStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"available": s.transcriber.Available()})
}
