package agent

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

const helpReply = "I'm a mock A2A agent for testing. I can echo messages and respond to greetings. " +
	"Try saying 'hello' or ask me to 'echo' something!"

// Reply picks the canned answer for text. Matching is case-insensitive and
// checked in order: greeting ("hello" anywhere, or the word "hi"), help,
// echo, then a generic acknowledgement.
func Reply(agentName, text string) string {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "hello") || hasWord(lower, "hi"):
		return fmt.Sprintf("Hello! I'm the %s. How can I help you today?", agentName)
	case strings.Contains(lower, "help"):
		return helpReply
	case strings.Contains(lower, "echo"):
		return "Echo: " + text
	default:
		return fmt.Sprintf("I received your message: '%s'. I'm a mock agent for testing A2A protocol integration.", text)
	}
}

// hasWord reports whether word appears in s as a whole alphanumeric token.
func hasWord(s, word string) bool {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return slices.Contains(words, word)
}
