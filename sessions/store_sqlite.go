package sessions

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore persists the session of one profile in a SQLite file so it
// survives process restarts, the way localStorage survives page reloads.
// Profiles sharing a file never see each other's values.
type SQLiteStore struct {
	db      *sql.DB
	profile string
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path, profile string) (*SQLiteStore, error) {
	if profile == "" {
		return nil, errors.New("[NewSQLiteStore] profile is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, errors.Wrap(err, "[NewSQLiteStore] mkdir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "[NewSQLiteStore] sql.Open")
	}
	// A single connection serialises writers and keeps :memory: databases alive.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "[NewSQLiteStore] ping")
	}

	s := &SQLiteStore{db: db, profile: profile}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "[NewSQLiteStore] migrate")
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS session_values (
		profile TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (profile, key)
	)`)
	return err
}

func (s *SQLiteStore) Get(field Field) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM session_values WHERE profile = ? AND key = ?`,
		s.profile, string(field),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "[SQLiteStore.Get] %s", field)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(field Field, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO session_values (profile, key, value) VALUES (?, ?, ?)
		ON CONFLICT(profile, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		s.profile, string(field), value,
	)
	if err != nil {
		return errors.Wrapf(err, "[SQLiteStore.Set] %s", field)
	}
	return nil
}

func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session_values WHERE profile = ?`, s.profile); err != nil {
		return errors.Wrap(err, "[SQLiteStore.Clear]")
	}
	return nil
}

func (s *SQLiteStore) ReplaceCredential(old, new string) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE session_values SET value = ?, updated_at = CURRENT_TIMESTAMP
		WHERE profile = ? AND key = ? AND value = ?`,
		new, s.profile, string(FieldCredential), old,
	)
	if err != nil {
		return false, errors.Wrap(err, "[SQLiteStore.ReplaceCredential]")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "[SQLiteStore.ReplaceCredential] rows affected")
	}
	return n == 1, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
