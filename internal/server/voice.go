package server

import (
	"context"
	"log/slog"
	"net/http"

	"voicetasks/internal/logging"
	"voicetasks/internal/service"
	"voicetasks/internal/utterance"
)

// SpeechResultField is the form field carrying the transcript.
const SpeechResultField = "SpeechResult"

// handleVoice returns the speech gathering prompt.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	doc, err := promptDocument(PathCapture)
	if err != nil {
		s.logger.Error("failed to build prompt", logging.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.metrics.PromptServed()
	writeTwiML(w, doc)
}

// handleCapture turns the transcript into tasks and speaks the outcome.
// A failing item is logged and skipped; the rest are still created.
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithOperation(s.logger, "capture")

	transcript := r.PostFormValue(SpeechResultField)
	items := utterance.Split(transcript)
	s.metrics.Captured(len(items))

	// Task creation is not cut short by the provider hanging up.
	ctx := context.WithoutCancel(r.Context())

	made := 0
	for _, title := range items {
		_, err := s.tasks.CreateTask(ctx, service.NewTask{Title: title})
		s.metrics.TaskCreated(err)
		if err != nil {
			logger.Warn("create task failed", logging.Title(title), logging.Err(err))
			continue
		}
		made++
	}
	logger.Info("capture finished",
		slog.Int(logging.KeyCount, made),
		slog.Int("candidates", len(items)),
	)

	doc, err := sayDocument(confirmation(made))
	if err != nil {
		logger.Error("failed to build confirmation", logging.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeTwiML(w, doc)
}

func writeTwiML(w http.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
