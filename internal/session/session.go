// Package session implements cookie-referenced, Redis-backed sessions for
// the storefront. The cookie itself carries only a signed session id; user
// id and pending flash notices live server-side.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Flash is a one-time notice shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Manager loads and commits sessions.
type Manager struct {
	client     *redis.Client
	cookieName string
	secret     []byte
	ttl        time.Duration
	secure     bool
	logger     *slog.Logger
}

func NewManager(client *redis.Client, cookieName, secret string, ttl time.Duration, secure bool, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client:     client,
		cookieName: cookieName,
		secret:     []byte(secret),
		ttl:        ttl,
		secure:     secure,
		logger:     logger,
	}
}

// Session holds per-request session state.
type Session struct {
	ID        string
	userID    uint
	flashes   []Flash
	isNew     bool
	dirty     bool
	destroyed bool
}

type payload struct {
	UserID  uint    `json:"user_id,omitempty"`
	Flashes []Flash `json:"flashes,omitempty"`
}

// Load resolves the session referenced by the request cookie. A missing,
// tampered or expired cookie yields a fresh empty session, never an error.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return &Session{isNew: true}, nil
	}

	sid, err := m.decodeCookie(cookie.Value)
	if err != nil {
		return &Session{isNew: true}, nil
	}

	raw, err := m.client.Get(ctx, m.redisKey(sid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Session{ID: sid, isNew: true}, nil
		}
		return nil, fmt.Errorf("session load: %w", err)
	}

	var stored payload
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}

	return &Session{ID: sid, userID: stored.UserID, flashes: stored.Flashes}, nil
}

// Commit persists session state and writes the cookie header. It must run
// before the response body or any redirect header is written.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return nil
	}

	if sess.destroyed {
		if sess.ID != "" {
			if err := m.client.Del(ctx, m.redisKey(sess.ID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
		return nil
	}

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}

	if sess.dirty || sess.isNew {
		data, err := json.Marshal(payload{UserID: sess.userID, Flashes: sess.flashes})
		if err != nil {
			return err
		}
		if err := m.client.Set(ctx, m.redisKey(sess.ID), data, m.ttl).Err(); err != nil {
			return err
		}
		sess.dirty = false
		sess.isNew = false
	}

	signed, err := m.encodeCookie(sess.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Path:     "/",
		Expires:  time.Now().Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) CookieName() string { return m.cookieName }

func (m *Manager) redisKey(sid string) string { return "storefront:session:" + sid }

// The cookie value is an HS256 token over the session id, so a forged or
// truncated cookie fails verification instead of hitting Redis.
func (m *Manager) encodeCookie(sid string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(m.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

func (m *Manager) decodeCookie(value string) (string, error) {
	t, err := jwt.Parse(value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !t.Valid {
		return "", fmt.Errorf("invalid session cookie: %w", err)
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("cannot parse session claims")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errors.New("session cookie without id")
	}
	return sid, nil
}

// Session accessors

// UserID returns the logged-in user id, if any.
func (s *Session) UserID() (uint, bool) {
	if s == nil || s.userID == 0 {
		return 0, false
	}
	return s.userID, true
}

func (s *Session) SetUserID(id uint) {
	s.userID = id
	s.dirty = true
}

// ClearUserID logs the user out but keeps the session alive, so the flash
// notice added afterwards still reaches the next page.
func (s *Session) ClearUserID() {
	if s == nil || s.userID == 0 {
		return
	}
	s.userID = 0
	s.dirty = true
}

func (s *Session) AddFlash(kind, message string) {
	s.flashes = append(s.flashes, Flash{Kind: kind, Message: message})
	s.dirty = true
}

// PopFlashes consumes all pending notices.
func (s *Session) PopFlashes() []Flash {
	if s == nil || len(s.flashes) == 0 {
		return nil
	}
	out := s.flashes
	s.flashes = nil
	s.dirty = true
	return out
}

// Destroy marks the whole session for deletion on commit.
func (s *Session) Destroy() {
	if s == nil {
		return
	}
	s.destroyed = true
}
