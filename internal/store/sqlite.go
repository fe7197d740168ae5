package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pujadisplay/internal/model"
)

// sqliteStore persists records in a single SQLite database. The details
// sub-agenda is kept as a JSON column, mirroring the VARIANT column the
// hosted deployment used.
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite-backed store at path and
// ensures the schema exists.
func OpenSQLite(path string) (Store, error) {
	if path == "" {
		return nil, errors.New("store: sqlite path is empty")
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS pujas (
  id         TEXT PRIMARY KEY,
  title      TEXT NOT NULL,
  start_date TEXT NOT NULL,
  start_time TEXT NOT NULL DEFAULT '',
  end_date   TEXT NOT NULL DEFAULT '',
  end_time   TEXT NOT NULL DEFAULT '',
  details    TEXT NOT NULL DEFAULT '[]',
  image_url  TEXT NOT NULL DEFAULT '',
  is_active  INTEGER NOT NULL DEFAULT 1 CHECK (is_active IN (0,1)),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_pujas_start ON pujas(start_date, start_time);
CREATE TABLE IF NOT EXISTS admins (
  id            TEXT PRIMARY KEY,
  username      TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role          TEXT NOT NULL DEFAULT 'ADMIN',
  created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
	`); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

const pujaColumns = "id, title, start_date, start_time, end_date, end_time, details, image_url, is_active"

func (s *sqliteStore) ListPujas(ctx context.Context) ([]model.Puja, error) {
	return s.queryPujas(ctx,
		"SELECT "+pujaColumns+" FROM pujas ORDER BY start_date DESC, start_time")
}

func (s *sqliteStore) ListActivePujas(ctx context.Context) ([]model.Puja, error) {
	return s.queryPujas(ctx,
		"SELECT "+pujaColumns+" FROM pujas WHERE is_active = 1 ORDER BY start_date DESC, start_time")
}

func (s *sqliteStore) queryPujas(ctx context.Context, query string) ([]model.Puja, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Puja, 0)
	for rows.Next() {
		var (
			p           model.Puja
			detailsJSON string
			active      int
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.StartDate, &p.StartTime,
			&p.EndDate, &p.EndTime, &detailsJSON, &p.ImageURL, &active); err != nil {
			return nil, err
		}
		p.IsActive = active == 1
		p.Details = decodeDetails(detailsJSON)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *sqliteStore) AddPuja(ctx context.Context, p model.Puja) (model.Puja, error) {
	p.ID = uuid.NewString()
	if p.Details == nil {
		p.Details = []model.Detail{}
	}

	detailsJSON, err := json.Marshal(p.Details)
	if err != nil {
		return model.Puja{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pujas (id, title, start_date, start_time, end_date, end_time, details, image_url, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.StartDate, p.StartTime, p.EndDate, p.EndTime,
		string(detailsJSON), p.ImageURL, boolToInt(p.IsActive))
	if err != nil {
		return model.Puja{}, err
	}
	return p, nil
}

func (s *sqliteStore) DeletePuja(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM pujas WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *sqliteStore) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, password_hash, role FROM admins ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Admin, 0)
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *sqliteStore) FindAdmin(ctx context.Context, username string) (model.Admin, error) {
	var a model.Admin
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role FROM admins WHERE username = ?", username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Admin{}, ErrNotFound
	}
	if err != nil {
		return model.Admin{}, err
	}
	return a, nil
}

func (s *sqliteStore) AddAdmin(ctx context.Context, a model.Admin) (model.Admin, error) {
	a.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO admins (id, username, password_hash, role) VALUES (?, ?, ?, ?)",
		a.ID, a.Username, a.PasswordHash, string(a.Role))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return model.Admin{}, ErrDuplicateUsername
		}
		return model.Admin{}, err
	}
	return a, nil
}

func (s *sqliteStore) DeleteAdmin(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM admins WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// decodeDetails tolerates malformed rows; bad JSON degrades to an empty
// sub-agenda rather than failing the whole listing.
func decodeDetails(raw string) []model.Detail {
	details := []model.Detail{}
	if raw == "" {
		return details
	}
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return []model.Detail{}
	}
	return details
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
