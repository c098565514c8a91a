// Package session holds the WordPress connection state: target site,
// identity, credential material, and the authenticated flag derived from
// the most recent authentication probe.
package session

import (
	"encoding/base64"
	"strings"
	"sync"

	"github.com/tessirov/pressgate/internal/apperr"
)

// Settings is the mutable part of a session. Empty fields are "not set";
// Configure merges them with last-writer-wins semantics.
type Settings struct {
	SiteURL     string
	Username    string
	Password    string
	AppPassword string
}

// Session is an explicit, mutex-guarded session object. Callers may hold
// several independent sessions; nothing here is process-global.
type Session struct {
	mu            sync.RWMutex
	settings      Settings
	authenticated bool
}

// New creates a session seeded with the given settings. The authenticated
// flag starts false regardless of the seed.
func New(s Settings) *Session {
	s.SiteURL = normalizeSiteURL(s.SiteURL)
	return &Session{settings: s}
}

// Configure merges non-empty fields of p into the session. It never
// validates reachability and never resets the authenticated flag.
func (s *Session) Configure(p Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.SiteURL != "" {
		s.settings.SiteURL = normalizeSiteURL(p.SiteURL)
	}
	if p.Username != "" {
		s.settings.Username = p.Username
	}
	if p.Password != "" {
		s.settings.Password = p.Password
	}
	if p.AppPassword != "" {
		s.settings.AppPassword = p.AppPassword
	}
}

// ReplaceSecrets overwrites both credential fields, clearing whichever is
// empty. Configure never clears a field, so switching to an account that
// carries only one kind of secret must go through here or the stale
// secret would keep winning the precedence rule in AuthHeader.
func (s *Session) ReplaceSecrets(password, appPassword string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Password = password
	s.settings.AppPassword = appPassword
}

// Settings returns a copy of the current settings.
func (s *Session) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SiteURL returns the configured site URL, which may be empty.
func (s *Session) SiteURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.SiteURL
}

// Authenticated reports the outcome of the most recent authentication probe.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// SetAuthenticated records a probe outcome. The flag is a function of the
// most recent probe only, never sticky.
func (s *Session) SetAuthenticated(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = v
}

// AuthHeader derives the Basic-Auth header value from the current
// credentials. The application password always takes precedence over the
// account password when both are present.
func (s *Session) AuthHeader() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	secret := s.settings.AppPassword
	if secret == "" {
		secret = s.settings.Password
	}
	if secret == "" {
		return "", apperr.Configuration("no password or application password configured")
	}
	token := base64.StdEncoding.EncodeToString([]byte(s.settings.Username + ":" + secret))
	return "Basic " + token, nil
}

// normalizeSiteURL strips a trailing slash so request paths can be joined
// with a single convention.
func normalizeSiteURL(u string) string {
	return strings.TrimRight(u, "/")
}
