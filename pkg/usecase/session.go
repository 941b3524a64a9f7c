package usecase

import (
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/gollem"
	"github.com/safesight-lab/safesight/pkg/domain/model"
)

// ChatSession holds the per-session state of the dashboard: the visible
// conversation, the live LLM session backing it, and the last clustering
// result. Sessions are in-memory only and vanish on restart.
type ChatSession struct {
	ID             string
	Turns          model.Conversation
	LastClustering *model.ClusteringResult

	llm gollem.Session
	mu  sync.Mutex
}

func NewChatSession() *ChatSession {
	return &ChatSession{
		ID: uuid.Must(uuid.NewV7()).String(),
	}
}

// SessionRegistry maps session IDs to live sessions. There is no sharing
// between sessions and no eviction; Clear is the only way a session ends.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*ChatSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*ChatSession),
	}
}

// Get returns the session with the given ID, or nil when unknown
func (r *SessionRegistry) Get(id string) *ChatSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// GetOrCreate returns the session with the given ID, creating a fresh one
// when the ID is empty or unknown.
func (r *SessionRegistry) GetOrCreate(id string) *ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if s, ok := r.sessions[id]; ok {
			return s
		}
	}

	s := NewChatSession()
	r.sessions[s.ID] = s
	return s
}

// Clear drops the session with the given ID
func (r *SessionRegistry) Clear(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
