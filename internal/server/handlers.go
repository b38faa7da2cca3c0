package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/quizflow"
	"github.com/abhisek/quizgen/internal/quizgen"
	"github.com/abhisek/quizgen/internal/ratelimit"
	"github.com/abhisek/quizgen/internal/scoring"
)

const maxBodyBytes = 64 << 10

// questionView is a question as shown to the user, without its answer.
type questionView struct {
	Number   int      `json:"number"` // 1-based
	Total    int      `json:"total"`
	Topic    string   `json:"topic"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func newQuestionView(s *quiz.Session, q quiz.Question) *questionView {
	return &questionView{
		Number:   s.CurrentIndex() + 1,
		Total:    s.Len(),
		Topic:    s.Topic(),
		Question: q.Text,
		Options:  q.Options,
	}
}

type questionResponse struct {
	Complete  bool          `json:"complete"`
	Question  *questionView `json:"question,omitempty"`
	ResultURL string        `json:"result_url,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	topic, err := readField(w, r, "topic")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body."})
		return
	}

	session, err := s.svc.Start(r.Context(), userFrom(r.Context()), topic)
	if err != nil {
		s.writeStartError(w, err)
		return
	}

	q, err := session.CurrentQuestion()
	if err != nil {
		s.writeInternal(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, questionResponse{Question: newQuestionView(session, q)})
}

func (s *Server) writeStartError(w http.ResponseWriter, err error) {
	body := errorBody{Error: quizflow.Message(err)}

	var quota *ratelimit.QuotaExceededError
	switch {
	case errors.Is(err, quizflow.ErrTopicRequired):
		writeJSON(w, http.StatusBadRequest, body)
	case errors.As(err, &quota):
		retry := max(int(time.Until(quota.ResetAt).Seconds()), 1)
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		writeJSON(w, http.StatusTooManyRequests, body)
	case errors.Is(err, quizgen.ErrGenerationFailed):
		s.log.Printf("quiz generation: %v", err)
		writeJSON(w, http.StatusUnprocessableEntity, body)
	default:
		s.writeInternal(w, err)
	}
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	session, q, err := s.svc.Current(r.Context(), userFrom(r.Context()))
	switch {
	case errors.Is(err, quiz.ErrNoActiveSession):
		writeJSON(w, http.StatusNotFound, errorBody{Error: quizflow.Message(err), Redirect: "/"})
		return
	case err != nil:
		s.writeInternal(w, err)
		return
	}

	if session.State() == quiz.StateComplete {
		writeJSON(w, http.StatusConflict, errorBody{
			Error:     quizflow.Message(quiz.ErrSessionComplete),
			Complete:  true,
			ResultURL: ResultPath,
		})
		return
	}
	writeJSON(w, http.StatusOK, questionResponse{Question: newQuestionView(session, q)})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	token, err := readAnswer(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body."})
		return
	}

	out, err := s.svc.Answer(r.Context(), userFrom(r.Context()), token)
	switch {
	case errors.Is(err, quiz.ErrNoActiveSession):
		writeJSON(w, http.StatusNotFound, errorBody{Error: quizflow.Message(err), Redirect: "/"})
	case errors.Is(err, quiz.ErrMissingAnswer):
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:    quizflow.Message(err),
			Question: newQuestionView(out.Session, out.Question),
		})
	case errors.Is(err, quiz.ErrSessionComplete):
		writeJSON(w, http.StatusConflict, errorBody{
			Error:     quizflow.Message(err),
			Complete:  true,
			ResultURL: ResultPath,
		})
	case err != nil:
		s.writeInternal(w, err)
	case out.Complete:
		writeJSON(w, http.StatusOK, questionResponse{Complete: true, ResultURL: ResultPath})
	default:
		writeJSON(w, http.StatusOK, questionResponse{Question: newQuestionView(out.Session, out.Question)})
	}
}

type resultResponse struct {
	scoring.Result
	Grade string `json:"grade"`
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Result(r.Context(), userFrom(r.Context()))
	switch {
	case errors.Is(err, quiz.ErrNoActiveSession):
		writeJSON(w, http.StatusNotFound, errorBody{Error: quizflow.Message(err), Redirect: "/"})
		return
	case err != nil:
		s.writeInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Result: res, Grade: res.Grade()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reset(r.Context(), userFrom(r.Context())); err != nil {
		s.writeInternal(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Quota(r.Context())
	if err != nil {
		s.writeInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) writeInternal(w http.ResponseWriter, err error) {
	s.log.Printf("internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: quizflow.Message(err)})
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// readField reads a string field from a JSON object or a form body.
func readField(w http.ResponseWriter, r *http.Request, name string) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if !isJSON(r) {
		if err := r.ParseForm(); err != nil {
			return "", err
		}
		return r.PostFormValue(name), nil
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", err
	}
	return rawToken(body[name])
}

// readAnswer reads the answer token. Forms may name it "answer" or
// "option"; JSON may send it as a string or a number.
func readAnswer(w http.ResponseWriter, r *http.Request) (string, error) {
	if isJSON(r) {
		return readField(w, r, "answer")
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	if v := r.PostFormValue("answer"); v != "" {
		return v, nil
	}
	return r.PostFormValue("option"), nil
}

// rawToken keeps a JSON scalar as the text the user sent.
func rawToken(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case trimmed == "" || trimmed == "null":
		return "", nil
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case strings.HasPrefix(trimmed, "{"), strings.HasPrefix(trimmed, "["):
		return "", errors.New("expected a string or number")
	default:
		return trimmed, nil
	}
}
