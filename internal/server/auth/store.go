// Package auth implements the credential store: the durable set of
// registered users plus the optional SMTP recovery configuration, persisted
// as a single pretty-printed JSON file.
//
// The file shape is an external contract:
//
//	{
//	  "users": {"<username>": {"username", "email", "password_hash",
//	                           "access_token", "created_at"}},
//	  "smtp_config": null | {"server", "port", "username", "password", "use_tls"}
//	}
//
// Every mutation rewrites the whole file. Mutations persist to disk before
// committing to memory, so a failed write never leaves the two views
// diverged.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/benrowan/crusty-crawler/internal/common"
	"github.com/benrowan/crusty-crawler/internal/randx"
)

// User is a registered account. Immutable after registration.
type User struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	AccessToken  string `json:"access_token"`
	CreatedAt    string `json:"created_at"`
}

// SMTPConfig describes the outbound mail channel used for credential
// recovery.
type SMTPConfig struct {
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	UseTLS   bool   `json:"use_tls"`
}

// Notifier delivers a credential-recovery message for the given user over
// the configured channel. Implementations must never include the user's
// password.
type Notifier interface {
	Send(ctx context.Context, cfg SMTPConfig, user User) error
}

// fileData mirrors the on-disk JSON document.
type fileData struct {
	Users      map[string]User `json:"users"`
	SMTPConfig *SMTPConfig     `json:"smtp_config"`
}

// Store owns the user map and SMTP config. All operations are safe for
// concurrent use; the mutex is held for the duration of each operation
// except the notifier call during Recover.
type Store struct {
	mu       sync.Mutex
	path     string
	users    map[string]User
	smtp     *SMTPConfig
	notifier Notifier

	now func() time.Time // test seam
}

// NewStore loads the credential store from path. If the file does not exist
// an empty store is created and persisted immediately.
func NewStore(path string, notifier Notifier) (*Store, error) {
	s := &Store{
		path:     path,
		users:    make(map[string]User),
		notifier: notifier,
		now:      time.Now,
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		doc := &fileData{}
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if doc.Users != nil {
			s.users = doc.Users
		}
		s.smtp = doc.SMTPConfig
	case errors.Is(err, os.ErrNotExist):
		if err := s.save(s.users, s.smtp); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return s, nil
}

// save writes the given state as the whole store file. It does not touch
// the in-memory maps; callers commit only after a successful write.
func (s *Store) save(users map[string]User, smtp *SMTPConfig) error {
	doc := &fileData{Users: users, SMTPConfig: smtp}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credential store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// Register creates a new user. All preconditions are checked before any
// state changes; on any validation failure the store is left untouched.
// The new state is persisted to disk first and committed to memory only on
// success.
func (s *Store) Register(username, password, email, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return common.NewValidationError("Username already exists")
	}
	if len(username) < 3 {
		return common.NewValidationError("Username must be at least 3 characters")
	}
	if len(password) < 8 {
		return common.NewValidationError("Password must be at least 8 characters")
	}
	if !strings.Contains(email, "@") {
		return common.NewValidationError("Email address must contain '@'")
	}
	if len(accessToken) < 8 {
		return common.NewValidationError("Access token must be at least 8 characters")
	}
	for _, u := range s.users {
		if u.AccessToken == accessToken {
			return common.NewValidationError("Access token already in use")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user := User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		AccessToken:  accessToken,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}

	next := make(map[string]User, len(s.users)+1)
	for k, v := range s.users {
		next[k] = v
	}
	next[username] = user

	if err := s.save(next, s.smtp); err != nil {
		return err
	}
	s.users = next

	return nil
}

// Authenticate verifies the password for username and returns the user's
// access token on success.
func (s *Store) Authenticate(username, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return "", common.ErrUserNotFound
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", common.ErrInvalidPassword
		}
		return "", fmt.Errorf("verifying password: %w", err)
	}

	return user.AccessToken, nil
}

// ValidateToken resolves an access token to its owning username. The scan
// compares every entry with a constant-time comparison; lookup cost still
// grows with the number of users.
func (s *Store) ValidateToken(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if subtle.ConstantTimeCompare([]byte(u.AccessToken), []byte(token)) == 1 {
			return u.Username, nil
		}
	}
	return "", common.ErrInvalidToken
}

// ConfigureSMTP replaces the recovery-mail configuration and persists it.
func (s *Store) ConfigureSMTP(cfg SMTPConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := &cfg
	if err := s.save(s.users, next); err != nil {
		return err
	}
	s.smtp = next

	return nil
}

// Recover looks up the first user whose email matches exactly and sends
// them their username and access token through the notifier. The store lock
// is released before the notifier call, which may be slow.
func (s *Store) Recover(ctx context.Context, email string) error {
	s.mu.Lock()
	var found *User
	for _, u := range s.users {
		if u.Email == email {
			u := u
			found = &u
			break
		}
	}
	var smtp *SMTPConfig
	if s.smtp != nil {
		cfg := *s.smtp
		smtp = &cfg
	}
	s.mu.Unlock()

	if found == nil {
		return common.ErrNoSuchEmail
	}
	if smtp == nil {
		return common.ErrNotifierUnconfigured
	}

	if err := s.notifier.Send(ctx, *smtp, *found); err != nil {
		return fmt.Errorf("%w: %v", common.ErrNotifierFailed, err)
	}

	return nil
}

// HasUsers reports whether at least one user is registered. The CLI uses it
// to decide whether first-run setup is required.
func (s *Store) HasUsers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users) > 0
}

// UserCount returns the number of registered users.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// SMTPConfigured reports whether a recovery-mail configuration is present.
func (s *Store) SMTPConfigured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.smtp != nil
}

// SuggestToken produces a random 16-character alphanumeric access token.
// Advisory only: the caller may register with a different token.
func (s *Store) SuggestToken() (string, error) {
	return randx.SuggestToken()
}
