// Package prompts is pure string construction: feature arguments in,
// one prompt out. No external calls, no state.
package prompts

import (
	"fmt"
	"strings"

	"codecrux/domain"
)

// DefaultSystemPrompt is the mentoring persona used when the caller
// does not supply one.
const DefaultSystemPrompt = `You are an expert AI programming mentor and assistant for developers. You help with:
- Code review and debugging
- Algorithm and data structure guidance
- System design and architecture
- Best practices and design patterns
- Learning new technologies
- Problem-solving and optimization

Provide clear, actionable advice with code examples when helpful. Be encouraging and educational.`

// FormatHistory renders each message as "<Role>: <content>" joined by
// blank lines. An empty history renders as an empty string.
func FormatHistory(history domain.History) string {
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role.Label(), m.Content))
	}
	return strings.Join(lines, "\n\n")
}

// BuildChatPrompt concatenates the system prompt, the formatted history
// and the new user message. An empty systemPrompt falls back to the
// default mentoring persona.
func BuildChatPrompt(history domain.History, message, systemPrompt string) string {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")
	if formatted := FormatHistory(history); formatted != "" {
		b.WriteString(formatted)
		b.WriteString("\n\n")
	}
	b.WriteString("User: ")
	b.WriteString(message)
	return b.String()
}
