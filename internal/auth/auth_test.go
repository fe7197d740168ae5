package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pujadisplay/internal/model"
	"pujadisplay/internal/store"
)

func newService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st, err := store.OpenFile(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc, err := New(st, "admin", "temple-secret", 24*time.Hour)
	require.NoError(t, err)
	return svc, st
}

func TestLoginSuperAdmin(t *testing.T) {
	svc, _ := newService(t)

	sess, err := svc.Login(context.Background(), "admin", "temple-secret")
	require.NoError(t, err)
	assert.Equal(t, SuperAdminID, sess.UserID)
	assert.Equal(t, model.RoleSuperAdmin, sess.Role)
	assert.NotEmpty(t, sess.Token)

	got, ok := svc.Session(sess.Token)
	require.True(t, ok)
	assert.Equal(t, sess.UserID, got.UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost", "temple-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginStoreAdmin(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	hash, err := HashPassword("om-namah")
	require.NoError(t, err)
	created, err := st.AddAdmin(ctx, model.Admin{
		Username:     "priest",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	require.NoError(t, err)

	sess, err := svc.Login(ctx, "priest", "om-namah")
	require.NoError(t, err)
	assert.Equal(t, created.ID, sess.UserID)
	assert.Equal(t, model.RoleAdmin, sess.Role)

	_, err = svc.Login(ctx, "priest", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessionExpiry(t *testing.T) {
	svc, _ := newService(t)

	current := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	sess, err := svc.Login(context.Background(), "admin", "temple-secret")
	require.NoError(t, err)

	_, ok := svc.Session(sess.Token)
	assert.True(t, ok)

	current = current.Add(25 * time.Hour)
	_, ok = svc.Session(sess.Token)
	assert.False(t, ok)

	// Expired sessions are gone, not just hidden.
	_, ok = svc.Session(sess.Token)
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	svc, _ := newService(t)

	sess, err := svc.Login(context.Background(), "admin", "temple-secret")
	require.NoError(t, err)

	svc.Logout(sess.Token)
	_, ok := svc.Session(sess.Token)
	assert.False(t, ok)
}
