package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/abhisek/hpquiz/internal/logger"
	"github.com/abhisek/hpquiz/internal/quiz"
)

const maxBodyBytes = 1 << 20

type handler struct {
	svc  QuizService
	log  *logger.Logger
	opts Options
}

type startSessionRequest struct {
	UserID string `json:"user_id"`
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
}

type questionView struct {
	ID              string          `json:"id"`
	Text            string          `json:"text"`
	Options         []quiz.Option   `json:"options"`
	Difficulty      quiz.Difficulty `json:"difficulty"`
	CorrectOptionID string          `json:"correct_option_id,omitempty"`
}

type nextQuestionResponse struct {
	Question             questionView `json:"question"`
	ShowDifficultyChange *string      `json:"show_difficulty_change"`
}

type submitAnswerRequest struct {
	SessionID        string `json:"session_id"`
	QuestionID       string `json:"question_id"`
	SelectedOptionID string `json:"selected_option_id"`
}

type submitAnswerResponse struct {
	Correct           bool            `json:"correct"`
	Difficulty        quiz.Difficulty `json:"difficulty"`
	CorrectAnswerText *string         `json:"correct_answer_text"`
	WindowCompleted   bool            `json:"window_completed"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.svc.SessionCount(),
	})
}

func (h *handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	id, err := h.svc.StartSession(r.Context())
	if err != nil {
		h.log.Error("start session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	if req.UserID != "" {
		h.log.Debug("session bound to user", "session_id", id, "user_id", req.UserID)
	}
	writeJSON(w, http.StatusOK, startSessionResponse{SessionID: id})
}

func (h *handler) nextQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id_required")
		return
	}

	res, err := h.svc.NextQuestion(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, sessionID, err)
		return
	}

	q := res.Question
	view := questionView{
		ID:         q.ID,
		Text:       q.Text,
		Options:    q.Options,
		Difficulty: q.Difficulty,
	}
	if h.opts.RevealAnswers {
		view.CorrectOptionID = q.CorrectOptionID
	}

	resp := nextQuestionResponse{Question: view}
	if res.Popup != quiz.PopupNone {
		token := string(res.Popup)
		resp.ShowDifficultyChange = &token
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	// An empty selected option is graded as a wrong answer.
	if req.SessionID == "" || req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	res, err := h.svc.SubmitAnswer(r.Context(), req.SessionID, req.QuestionID, req.SelectedOptionID)
	if err != nil {
		h.writeServiceError(w, req.SessionID, err)
		return
	}

	resp := submitAnswerResponse{
		Correct:         res.Correct,
		Difficulty:      res.Difficulty,
		WindowCompleted: res.WindowCompleted,
	}
	if res.Known {
		text := res.CorrectAnswerText
		resp.CorrectAnswerText = &text
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) writeServiceError(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, quiz.ErrUnknownSession):
		writeError(w, http.StatusNotFound, "session_not_found")
	case errors.Is(err, quiz.ErrNoQuestionsAvailable):
		writeError(w, http.StatusServiceUnavailable, "no_questions_available")
	default:
		h.log.Error("request failed", "session_id", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

// decodeOptional decodes a JSON body into v; an empty body is not an error.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
