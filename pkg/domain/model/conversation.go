package model

import "github.com/safesight-lab/safesight/pkg/domain/types"

// Turn is one entry of a conversation. Conversations grow monotonically
// during a session and are not persisted beyond it.
type Turn struct {
	Role types.Role `json:"role"`
	Text string     `json:"text"`
}

// Conversation is an ordered sequence of turns
type Conversation []Turn

// Append returns the conversation with a new turn added
func (c Conversation) Append(role types.Role, text string) Conversation {
	return append(c, Turn{Role: role, Text: text})
}
