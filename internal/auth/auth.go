// Package auth verifies admin credentials and issues in-memory bearer-token
// sessions for the admin API. There is one bootstrap super admin seeded
// from config; additional admins live in the store with bcrypt hashes.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pujadisplay/internal/model"
	"pujadisplay/internal/store"
)

// SuperAdminID is the fixed id of the config-seeded super admin. It is not
// a store record and can never be deleted through the API.
const SuperAdminID = "super"

// ErrInvalidCredentials is returned for any failed login. The cause
// (unknown user vs wrong password) is deliberately not distinguished.
var ErrInvalidCredentials = errors.New("auth: invalid username or password")

// Session is an authenticated admin session.
type Session struct {
	Token    string
	UserID   string
	Username string
	Role     model.Role
	Expiry   time.Time
}

// Service owns the session table. Sessions are in-memory only; a restart
// logs every admin out, which is acceptable for this system.
type Service struct {
	store store.Store
	ttl   time.Duration

	superUser string
	superHash []byte

	mu       sync.Mutex
	sessions map[string]Session

	now func() time.Time
}

// New creates a Service. superPass is bcrypt-hashed immediately so the
// plaintext is not kept around.
func New(st store.Store, superUser, superPass string, ttl time.Duration) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(superPass), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Service{
		store:     st,
		ttl:       ttl,
		superUser: superUser,
		superHash: hash,
		sessions:  make(map[string]Session),
		now:       time.Now,
	}, nil
}

// SuperUsername returns the bootstrap super admin's username.
func (s *Service) SuperUsername() string { return s.superUser }

// Login verifies credentials against the bootstrap super admin first, then
// the store, and issues a session token on success.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	if username == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	if username == s.superUser {
		if bcrypt.CompareHashAndPassword(s.superHash, []byte(password)) != nil {
			return Session{}, ErrInvalidCredentials
		}
		return s.issue(SuperAdminID, username, model.RoleSuperAdmin), nil
	}

	admin, err := s.store.FindAdmin(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	role := admin.Role
	if role == "" {
		role = model.RoleAdmin
	}
	return s.issue(admin.ID, admin.Username, role), nil
}

// Session resolves a bearer token. Expired sessions are removed on lookup.
func (s *Service) Session(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if s.now().After(sess.Expiry) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

// Logout revokes a token. Unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func (s *Service) issue(userID, username string, role model.Role) Session {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)

	sess := Session{
		Token:    hex.EncodeToString(buf),
		UserID:   userID,
		Username: username,
		Role:     role,
		Expiry:   s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.sweepLocked()
	s.mu.Unlock()

	return sess
}

// sweepLocked drops expired sessions. Called opportunistically on issue so
// the table cannot grow without bound.
func (s *Service) sweepLocked() {
	now := s.now()
	for token, sess := range s.sessions {
		if now.After(sess.Expiry) {
			delete(s.sessions, token)
		}
	}
}

// HashPassword bcrypt-hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("auth: password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
