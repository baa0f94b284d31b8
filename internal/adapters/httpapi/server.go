package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lettersmith/newsletter-api/internal/app/newsletters"
	"github.com/lettersmith/newsletter-api/internal/app/subscriptions"
	"github.com/lettersmith/newsletter-api/internal/domain"
)

// Server is the HTTP adapter. It is intentionally thin: decode the request,
// call the workflow, map the result to a status code.
type Server struct {
	subscriptions *subscriptions.Service
	newsletters   *newsletters.Service
	log           *slog.Logger
}

func NewServer(subs *subscriptions.Service, news *newsletters.Service, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{subscriptions: subs, newsletters: news, log: log}
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_FORM", "request body must be form-encoded")
		return
	}
	_, err := s.subscriptions.Subscribe(r.Context(), subscriptions.SubscribeInput{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("subscription_token")
	if strings.TrimSpace(token) == "" {
		writeError(w, r, http.StatusBadRequest, "TOKEN_REQUIRED", "subscription_token query parameter is required")
		return
	}
	if err := s.subscriptions.ConfirmSubscription(r.Context(), token); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type newsletterBody struct {
	Title   string `json:"title"`
	Content struct {
		HTML string `json:"html"`
		Text string `json:"text"`
	} `json:"content"`
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	var body newsletterBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		return
	}
	err := s.newsletters.Publish(r.Context(), domain.Issue{
		Title: body.Title,
		HTML:  body.Content.HTML,
		Text:  body.Content.Text,
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
