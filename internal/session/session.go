// Package session holds the conversation state of the active chat session.
//
// History is append-only and lives only for the process lifetime; it is never
// persisted. Ordering is semantically meaningful: turns are replayed to the
// language model as dialogue context.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role constants define valid turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged message in the conversation history.
type Turn struct {
	Role    string
	Content string
}

// History encapsulates conversation history with thread-safe access.
//
// Turns are only ever appended in (user, assistant) pairs via Add; existing
// entries are never mutated. The zero value is not useful — use NewHistory.
type History struct {
	id      uuid.UUID
	started time.Time

	mu    sync.RWMutex
	turns []Turn
}

// NewHistory creates an empty History for a fresh session.
func NewHistory() *History {
	return &History{
		id:      uuid.New(),
		started: time.Now(),
		turns:   make([]Turn, 0),
	}
}

// ID returns the session identifier.
func (h *History) ID() uuid.UUID {
	return h.id
}

// StartedAt returns the session start time.
func (h *History) StartedAt() time.Time {
	return h.started
}

// Add appends the user request and the assistant answer as a pair.
// Existing turns are never modified.
func (h *History) Add(userInput, assistantAnswer string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns,
		Turn{Role: RoleUser, Content: userInput},
		Turn{Role: RoleAssistant, Content: assistantAnswer},
	)
}

// Clear removes all turns, starting the conversation over.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}

// Turns returns a copy of all turns for thread-safe access.
func (h *History) Turns() []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	result := make([]Turn, len(h.turns))
	copy(result, h.turns)
	return result
}

// Len returns the number of turns.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}
