package http

import (
	"net/http"

	"github.com/safesight-lab/safesight/pkg/usecase"
)

const sessionCookieName = "session_id"

// session resolves the chat session for a request: the cookie wins, a
// session_id from the request body is the fallback, and a fresh session is
// created otherwise. The cookie is (re)set whenever the ID changes.
func (s *Server) session(w http.ResponseWriter, r *http.Request, bodyID string) *usecase.ChatSession {
	id := bodyID
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		id = cookie.Value
	}

	sess := s.uc.Sessions.GetOrCreate(id)
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// sessionID returns the request's session ID without creating a session
func (s *Server) sessionID(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
