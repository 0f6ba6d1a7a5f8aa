package chat

import (
	"strings"
	"unicode/utf8"
)

const (
	TypeChat = "chat"

	MaxMessageRunes = 500
)

// Inbound is what a client sends. Any username it carries is ignored.
type Inbound struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Message struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// normalize trims the text and caps it at MaxMessageRunes. ok is false for
// anything that should not be relayed.
func normalize(in Inbound) (string, bool) {
	if in.Type != TypeChat {
		return "", false
	}
	text := strings.TrimSpace(in.Message)
	if text == "" {
		return "", false
	}
	if utf8.RuneCountInString(text) > MaxMessageRunes {
		text = string([]rune(text)[:MaxMessageRunes])
	}
	return text, true
}
