package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/examdesk/examportal/internal/chat"
	"github.com/examdesk/examportal/internal/exam"
	"github.com/examdesk/examportal/internal/identity"
	"github.com/examdesk/examportal/internal/model"
)

// Catalog supplies exam definitions. Read-only.
type Catalog interface {
	ListSetIDs() ([]int, error)
	GetExam(setID int) (model.Exam, error)
}

// ResultStore persists graded submissions. Append and read only: a result
// is created exactly once and never changed.
type ResultStore interface {
	CreateResult(res model.Result) (model.Result, error)
	GetResult(id string) (model.Result, error)
}

// Chatter forwards a single chat message to the inference endpoint.
type Chatter interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	catalog  Catalog
	results  ResultStore
	chat     Chatter
	identity identity.Provider
}

// New creates a new Handler.
func New(catalog Catalog, results ResultStore, chatter Chatter, ident identity.Provider) *Handler {
	return &Handler{catalog: catalog, results: results, chat: chatter, identity: ident}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/exams", func(r chi.Router) {
		r.Get("/", h.handleListSets)
		r.Post("/submit-exam", h.handleSubmit)
		r.Get("/result/{resultID}", h.handleResultDetail)
		r.Get("/result/{resultID}/stats", h.handleResultStats)
		r.Get("/{setID}", h.handleGetExam)
	})
	r.Post("/api/chat", h.handleChat)
}

func (h *Handler) handleListSets(w http.ResponseWriter, r *http.Request) {
	ids, err := h.catalog.ListSetIDs()
	if err != nil {
		h.fail(w, err, "Server error while fetching exam sets")
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (h *Handler) handleGetExam(w http.ResponseWriter, r *http.Request) {
	setID, err := strconv.Atoi(chi.URLParam(r, "setID"))
	if err != nil || setID < 1 {
		writeError(w, http.StatusBadRequest, "Invalid exam set ID. Must be a positive integer.")
		return
	}
	ex, err := h.catalog.GetExam(setID)
	if err != nil {
		h.fail(w, err, "Server error while loading exam")
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sub, err := exam.ValidateSubmission(raw)
	if err != nil {
		h.fail(w, err, "Server error while submitting exam")
		return
	}

	ex, err := h.catalog.GetExam(sub.SetID)
	if err != nil {
		// No result is created for an unknown set.
		h.fail(w, err, "Server error while submitting exam")
		return
	}

	res, err := h.results.CreateResult(model.Result{
		SetID:       sub.SetID,
		Answers:     sub.Answers,
		Score:       exam.Score(ex, sub.Answers),
		TimeUsed:    sub.TimeUsed,
		StudentID:   h.identity.StudentID(r),
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		h.fail(w, err, "Server error while submitting exam")
		return
	}

	slog.Info("exam submitted", "set_id", sub.SetID, "result_id", res.ID, "score", res.Score)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "resultId": res.ID})
}

func (h *Handler) handleResultDetail(w http.ResponseWriter, r *http.Request) {
	res, err := h.results.GetResult(chi.URLParam(r, "resultID"))
	if err != nil {
		h.fail(w, err, "Server error while fetching result")
		return
	}
	ex, err := h.catalog.GetExam(res.SetID)
	if err != nil {
		h.fail(w, err, "Server error while fetching result")
		return
	}
	writeJSON(w, http.StatusOK, exam.Compile(ex, res))
}

func (h *Handler) handleResultStats(w http.ResponseWriter, r *http.Request) {
	res, err := h.results.GetResult(chi.URLParam(r, "resultID"))
	if err != nil {
		h.fail(w, err, "Server error while generating stats")
		return
	}
	ex, err := h.catalog.GetExam(res.SetID)
	if err != nil {
		h.fail(w, err, "Server error while generating stats")
		return
	}
	writeJSON(w, http.StatusOK, exam.SectionBreakdown(ex, res))
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply, err := h.chat.Reply(r.Context(), req.Message)
	if err != nil {
		var chatErr *chat.Error
		if errors.As(err, &chatErr) {
			slog.Error("chat proxy failed", "status", chatErr.Status, "error", err)
			writeError(w, chatErr.Status, chatErr.Message)
			return
		}
		h.fail(w, err, "Network error or failed to get response from AI model.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// fail maps the error taxonomy to HTTP responses: validation failures are
// 400 with the offending detail, unknown ids are 404, and everything else is
// logged for operators and reported as a generic failure.
func (h *Handler) fail(w http.ResponseWriter, err error, genericMsg string) {
	var vErr *exam.ValidationError
	switch {
	case errors.As(err, &vErr):
		msg := vErr.Error()
		if vErr.Entry != nil {
			if echo, jerr := json.Marshal(vErr.Entry); jerr == nil {
				msg += ". Entry: " + string(echo)
			}
		}
		writeError(w, http.StatusBadRequest, msg)
	case errors.Is(err, exam.ErrExamNotFound):
		writeError(w, http.StatusNotFound, "Exam set not found")
	case errors.Is(err, exam.ErrResultNotFound):
		writeError(w, http.StatusNotFound, "Result not found")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, genericMsg)
	}
}
