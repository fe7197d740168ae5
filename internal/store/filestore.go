package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"pujadisplay/internal/model"
	"pujadisplay/internal/schedule"
)

const (
	pujasFile  = "pujas.json"
	adminsFile = "admins.json"
)

// fileStore keeps records in two JSON files under a data directory. Writes
// rewrite the whole file atomically (temp file + rename), which is plenty
// for a schedule that changes a few times a week.
type fileStore struct {
	dir string

	mu sync.Mutex
}

type pujasDoc struct {
	Pujas []model.Puja `json:"pujas"`
}

type adminsDoc struct {
	Admins []storedAdmin `json:"admins"`
}

// storedAdmin is the on-disk admin shape; unlike model.Admin it serializes
// the password hash.
type storedAdmin struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"passwordHash"`
	Role         model.Role `json:"role"`
}

// OpenFile opens (creating if needed) a file-backed store rooted at dir.
func OpenFile(dir string) (Store, error) {
	if dir == "" {
		return nil, errors.New("store: data dir is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) ListPujas(_ context.Context) ([]model.Puja, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readPujas()
	if err != nil {
		return nil, err
	}
	sortNewestFirst(doc.Pujas)
	return doc.Pujas, nil
}

func (s *fileStore) ListActivePujas(ctx context.Context) ([]model.Puja, error) {
	all, err := s.ListPujas(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]model.Puja, 0, len(all))
	for _, p := range all {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *fileStore) AddPuja(_ context.Context, p model.Puja) (model.Puja, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readPujas()
	if err != nil {
		return model.Puja{}, err
	}

	p.ID = uuid.NewString()
	if p.Details == nil {
		p.Details = []model.Detail{}
	}
	doc.Pujas = append(doc.Pujas, p)

	if err := s.writeJSON(pujasFile, doc); err != nil {
		return model.Puja{}, err
	}
	return p, nil
}

func (s *fileStore) DeletePuja(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readPujas()
	if err != nil {
		return err
	}

	kept := doc.Pujas[:0]
	found := false
	for _, p := range doc.Pujas {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrNotFound
	}

	doc.Pujas = kept
	return s.writeJSON(pujasFile, doc)
}

func (s *fileStore) ListAdmins(_ context.Context) ([]model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readAdmins()
	if err != nil {
		return nil, err
	}

	out := make([]model.Admin, 0, len(doc.Admins))
	for _, a := range doc.Admins {
		out = append(out, a.toModel())
	}
	return out, nil
}

func (s *fileStore) FindAdmin(_ context.Context, username string) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readAdmins()
	if err != nil {
		return model.Admin{}, err
	}
	for _, a := range doc.Admins {
		if a.Username == username {
			return a.toModel(), nil
		}
	}
	return model.Admin{}, ErrNotFound
}

func (s *fileStore) AddAdmin(_ context.Context, a model.Admin) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readAdmins()
	if err != nil {
		return model.Admin{}, err
	}
	for _, existing := range doc.Admins {
		if existing.Username == a.Username {
			return model.Admin{}, ErrDuplicateUsername
		}
	}

	a.ID = uuid.NewString()
	doc.Admins = append(doc.Admins, storedAdmin{
		ID:           a.ID,
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
	})

	if err := s.writeJSON(adminsFile, doc); err != nil {
		return model.Admin{}, err
	}
	return a, nil
}

func (s *fileStore) DeleteAdmin(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readAdmins()
	if err != nil {
		return err
	}

	kept := doc.Admins[:0]
	found := false
	for _, a := range doc.Admins {
		if a.ID == id {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return ErrNotFound
	}

	doc.Admins = kept
	return s.writeJSON(adminsFile, doc)
}

func (s *fileStore) Close() error { return nil }

func (a storedAdmin) toModel() model.Admin {
	return model.Admin{
		ID:           a.ID,
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
	}
}

func (s *fileStore) readPujas() (pujasDoc, error) {
	var doc pujasDoc
	if err := s.readJSON(pujasFile, &doc); err != nil {
		return pujasDoc{}, err
	}
	if doc.Pujas == nil {
		doc.Pujas = []model.Puja{}
	}
	return doc, nil
}

func (s *fileStore) readAdmins() (adminsDoc, error) {
	var doc adminsDoc
	if err := s.readJSON(adminsFile, &doc); err != nil {
		return adminsDoc{}, err
	}
	if doc.Admins == nil {
		doc.Admins = []storedAdmin{}
	}
	return doc, nil
}

func (s *fileStore) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// writeJSON writes v atomically: temp file in the same directory, fsync,
// chmod 0600, rename.
func (s *fileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, filepath.Join(s.dir, name))
}

// sortNewestFirst orders records by start date descending, then start time
// ascending within a date, matching the admin listing the system has always
// shown.
func sortNewestFirst(pujas []model.Puja) {
	sort.SliceStable(pujas, func(i, j int) bool {
		if pujas[i].StartDate != pujas[j].StartDate {
			return pujas[i].StartDate > pujas[j].StartDate
		}
		return schedule.ParseClock(pujas[i].StartTime) < schedule.ParseClock(pujas[j].StartTime)
	})
}
