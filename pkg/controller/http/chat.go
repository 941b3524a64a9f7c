package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/model"
)

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Query     string `json:"query"`
}

type chatResponse struct {
	SessionID string             `json:"session_id"`
	Answer    string             `json:"answer"`
	Turns     model.Conversation `json:"turns"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(ctx, w, goerr.Wrap(model.ErrInvalidRequest, "invalid chat request body", goerr.V("cause", err)))
		return
	}

	sess := s.session(w, r, req.SessionID)

	answer, err := s.uc.QA.Ask(ctx, sess, req.Query)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, &chatResponse{
		SessionID: sess.ID,
		Answer:    answer,
		Turns:     sess.Turns,
	})
}

func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if id := s.sessionID(r); id != "" {
		s.uc.Sessions.Clear(id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "cleared"})
}
