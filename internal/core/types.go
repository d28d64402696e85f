// Package core holds the conversational data model shared by the cache,
// the prompt engine, the durable log, and the orchestrator.
package core

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one immutable utterance, created the moment text is produced
// by a human or by a model call.
type Message struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Role      Role      `json:"role"`
	Speaker   string    `json:"speaker"`
	Content   string    `json:"content"`
}

func NewMessage(role Role, speaker, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Role:      role,
		Speaker:   speaker,
		Content:   content,
	}
}

// MemoryString renders the message the way it is stored in long-term memory.
func (m Message) MemoryString() string {
	return m.Speaker + ": " + m.Content + "\n"
}

// Turn is one request/response exchange, the atomic unit of conversational
// memory.
type Turn struct {
	ID       string  `json:"id"`
	Request  Message `json:"request"`
	Response Message `json:"response"`
}

func NewTurn(request, response Message) Turn {
	return Turn{
		ID:       uuid.NewString(),
		Request:  request,
		Response: response,
	}
}

// Document concatenates both utterances of the turn for memory upserts.
func (t Turn) Document() string {
	return t.Request.MemoryString() + t.Response.MemoryString()
}
