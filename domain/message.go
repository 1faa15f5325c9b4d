// Package domain contains core concepts of the mentor chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label renders the role the way prompts and transcripts expect it,
// with a capitalized first letter.
func (r Role) Label() string {
	switch r {
	case RoleAssistant:
		return "Assistant"
	default:
		return "User"
	}
}

// Message represents one immutable entry of a conversation.
type Message struct {
	Role      Role
	Content   string
	CreatedAt time.Time
}

// History is a caller-supplied, insertion-ordered conversation.
// The relay never persists it between turns.
type History []Message

// Normalize rejects unknown roles and blank content so that nothing
// duck-typed crosses the boundary into the orchestrator.
func (h History) Normalize() (History, error) {
	out := make(History, 0, len(h))
	for i, m := range h {
		switch m.Role {
		case RoleUser, RoleAssistant:
		default:
			return nil, fmt.Errorf("history entry %d: unknown role %q", i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return nil, fmt.Errorf("history entry %d: empty content", i)
		}
		out = append(out, m)
	}
	return out, nil
}
