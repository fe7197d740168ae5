// Package store persists puja records and admin accounts. Two backends
// implement the same interface: a JSON-file store for single-box setups and
// a SQLite store for anything that outgrows it. The display core only ever
// reads snapshots; all writes come from the admin API.
package store

import (
	"context"
	"errors"

	"pujadisplay/internal/model"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateUsername is returned when adding an admin whose
	// username is already taken.
	ErrDuplicateUsername = errors.New("store: username already exists")
)

// Store is the persistence contract shared by the file and SQLite backends.
//
// ListPujas returns every record, newest start date first (the admin list
// order). ListActivePujas returns only active records; it is the snapshot
// read used by the display and applies the upstream isActive filter so
// inactive events never reach classification.
type Store interface {
	ListPujas(ctx context.Context) ([]model.Puja, error)
	ListActivePujas(ctx context.Context) ([]model.Puja, error)
	// AddPuja persists p, assigning a fresh ID, and returns the stored record.
	AddPuja(ctx context.Context, p model.Puja) (model.Puja, error)
	DeletePuja(ctx context.Context, id string) error

	ListAdmins(ctx context.Context) ([]model.Admin, error)
	// FindAdmin looks an admin up by username, hash included.
	FindAdmin(ctx context.Context, username string) (model.Admin, error)
	// AddAdmin persists a, assigning a fresh ID. a.PasswordHash must
	// already be a bcrypt hash; stores never see plaintext passwords.
	AddAdmin(ctx context.Context, a model.Admin) (model.Admin, error)
	DeleteAdmin(ctx context.Context, id string) error

	Close() error
}
