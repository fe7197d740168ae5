package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pujadisplay/internal/model"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := OpenFile(t.TempDir())
	require.NoError(t, err)

	sqliteStore, err := OpenSQLite(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)

	t.Cleanup(func() {
		fileStore.Close()
		sqliteStore.Close()
	})

	return map[string]Store{"file": fileStore, "sqlite": sqliteStore}
}

func TestPujaCRUD(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			all, err := s.ListPujas(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)

			created, err := s.AddPuja(ctx, model.Puja{
				Title:     "Ganesh Chaturthi",
				StartDate: "2026-08-28",
				StartTime: "9:00 am",
				EndTime:   "11:00 am",
				Details:   []model.Detail{{Time: "9:00 am", Name: "Abhishekam"}},
				IsActive:  true,
			})
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)

			inactive, err := s.AddPuja(ctx, model.Puja{
				Title:     "Draft",
				StartDate: "2026-09-01",
				IsActive:  false,
			})
			require.NoError(t, err)

			all, err = s.ListPujas(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			// Newest start date first.
			assert.Equal(t, "Draft", all[0].Title)

			active, err := s.ListActivePujas(ctx)
			require.NoError(t, err)
			require.Len(t, active, 1)
			assert.Equal(t, created.ID, active[0].ID)
			assert.Equal(t, []model.Detail{{Time: "9:00 am", Name: "Abhishekam"}}, active[0].Details)

			require.NoError(t, s.DeletePuja(ctx, inactive.ID))
			assert.ErrorIs(t, s.DeletePuja(ctx, inactive.ID), ErrNotFound)

			all, err = s.ListPujas(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestAdminCRUD(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.FindAdmin(ctx, "priest")
			assert.ErrorIs(t, err, ErrNotFound)

			created, err := s.AddAdmin(ctx, model.Admin{
				Username:     "priest",
				PasswordHash: "$2a$10$fakehashfortest",
				Role:         model.RoleAdmin,
			})
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)

			_, err = s.AddAdmin(ctx, model.Admin{Username: "priest", PasswordHash: "x", Role: model.RoleAdmin})
			assert.ErrorIs(t, err, ErrDuplicateUsername)

			found, err := s.FindAdmin(ctx, "priest")
			require.NoError(t, err)
			assert.Equal(t, "$2a$10$fakehashfortest", found.PasswordHash)
			assert.Equal(t, model.RoleAdmin, found.Role)

			admins, err := s.ListAdmins(ctx)
			require.NoError(t, err)
			assert.Len(t, admins, 1)

			require.NoError(t, s.DeleteAdmin(ctx, created.ID))
			assert.ErrorIs(t, s.DeleteAdmin(ctx, created.ID), ErrNotFound)
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenFile(dir)
	require.NoError(t, err)
	_, err = s.AddPuja(ctx, model.Puja{Title: "Persisted", StartDate: "2026-08-28", IsActive: true})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := OpenFile(dir)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.ListPujas(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Persisted", all[0].Title)
}
