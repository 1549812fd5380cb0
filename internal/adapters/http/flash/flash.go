// Package flash carries one-shot notices across a redirect in a signed cookie.
package flash

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
)

// Categories understood by the layout template.
const (
	Success = "success"
	Info    = "info"
	Warning = "warning"
	Danger  = "danger"
)

const cookieName = "shop_flash"

// Message is one notice.
type Message struct {
	Category string
	Text     string
}

// Store signs and reads the flash cookie.
type Store struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewStore creates a flash store. hashKey should be 32 or 64 bytes.
// PRE: len(hashKey) > 0
// POST: Cookies are HMAC-signed; tampered cookies are dropped on read
func NewStore(hashKey []byte, secure bool) *Store {
	return &Store{codec: securecookie.New(hashKey, nil), secure: secure}
}

// Add appends a message to the pending flash cookie. Messages already queued
// on this request (from r's cookie) are kept.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, category, text string) {
	msgs := s.read(r)
	msgs = append(msgs, Message{Category: category, Text: text})
	encoded, err := s.codec.Encode(cookieName, msgs)
	if err != nil {
		slog.Error("flash_event", "event", "encode_failed", "error", err)
		return
	}
	http.SetCookie(w, s.cookie(encoded, 0))
}

// Pop returns the pending messages and clears the cookie.
// PRE: called before the response body is written
// POST: The next request sees no messages
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	msgs := s.read(r)
	if _, err := r.Cookie(cookieName); err == nil {
		http.SetCookie(w, s.cookie("", -1))
	}
	return msgs
}

func (s *Store) read(r *http.Request) []Message {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	var msgs []Message
	if err := s.codec.Decode(cookieName, c.Value, &msgs); err != nil {
		slog.Warn("flash_event", "event", "decode_failed", "error", err)
		return nil
	}
	return msgs
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}
