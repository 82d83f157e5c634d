// Package flash carries one-shot user messages across a redirect in the session.
package flash

import (
	"strings"

	"github.com/gorilla/sessions"
)

// Message kinds, also used as CSS modifiers.
const (
	Success = "success"
	Warning = "warning"
	Error   = "error"
)

type Message struct {
	Kind string
	Text string
}

// Add queues a message on sess. The caller saves the session.
func Add(sess *sessions.Session, kind, text string) {
	sess.AddFlash(kind + "|" + text)
}

// Pop drains queued messages from sess. The caller saves the session.
func Pop(sess *sessions.Session) []Message {
	raw := sess.Flashes()
	out := make([]Message, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		kind, text, found := strings.Cut(s, "|")
		if !found {
			kind, text = Warning, s
		}
		out = append(out, Message{Kind: kind, Text: text})
	}
	return out
}
