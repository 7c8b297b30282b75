package sessions

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/aaron-cedillo/EbenConta-Project/internal/errors"
)

// Field names one persisted session key. The values double as the storage
// keys so the layout matches what the web client keeps in localStorage.
type Field string

const (
	FieldCredential         Field = "token"
	FieldDisplayName        Field = "nombre"
	FieldUserID             Field = "UsuarioID"
	FieldRoleExpirationDate Field = "expirationDate"
)

// Fields lists every session field, credential first.
var Fields = []Field{FieldCredential, FieldDisplayName, FieldUserID, FieldRoleExpirationDate}

// Record is the typed view of a stored session.
type Record struct {
	Credential  string // Bearer credential, always the most recently issued
	DisplayName string // Shown in dashboard headers
	UserID      int    // Numeric backend user id

	// RoleExpirationDate is the contador access window end as sent by the
	// backend (ISO date). Empty for every other role.
	RoleExpirationDate string
}

// ExpirationTime parses RoleExpirationDate. It returns nil when there is none.
func (r Record) ExpirationTime() (*time.Time, error) {
	if r.RoleExpirationDate == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, r.RoleExpirationDate); err == nil {
			return &t, nil
		}
	}
	return nil, errors.Errorf("invalid expirationDate %q", r.RoleExpirationDate)
}

// Load reads the full session record. It returns ErrSessionNotFound when no
// credential is stored.
func Load(store Store) (*Record, error) {
	credential, ok, err := store.Get(FieldCredential)
	if err != nil {
		return nil, errors.Wrap(err, "[sessions.Load] credential")
	}
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}

	record := &Record{Credential: credential}

	if record.DisplayName, err = DisplayName(store); err != nil {
		return nil, err
	}
	if record.UserID, err = UserID(store); err != nil {
		return nil, err
	}
	if record.RoleExpirationDate, _, err = store.Get(FieldRoleExpirationDate); err != nil {
		return nil, errors.Wrap(err, "[sessions.Load] expirationDate")
	}
	return record, nil
}

type fieldValue struct {
	field Field
	value string
}

// Save persists every field of the record. The credential is written first;
// expirationDate is only written when the record carries one.
func Save(store Store, record Record) error {
	if record.Credential == "" {
		return errors.New("[sessions.Save] credential is required")
	}

	values := []fieldValue{
		{FieldCredential, record.Credential},
		{FieldDisplayName, record.DisplayName},
		{FieldUserID, strconv.Itoa(record.UserID)},
	}
	if record.RoleExpirationDate != "" {
		values = append(values, fieldValue{FieldRoleExpirationDate, record.RoleExpirationDate})
	}

	for _, v := range values {
		if err := store.Set(v.field, v.value); err != nil {
			return errors.Wrapf(err, "[sessions.Save] %s", v.field)
		}
	}
	return nil
}

// DisplayName returns the stored display name, or "" when absent.
func DisplayName(store Store) (string, error) {
	name, _, err := store.Get(FieldDisplayName)
	if err != nil {
		return "", errors.Wrap(err, "[sessions.DisplayName]")
	}
	return name, nil
}

// UserID returns the stored user id, or 0 when absent.
func UserID(store Store) (int, error) {
	raw, ok, err := store.Get(FieldUserID)
	if err != nil {
		return 0, errors.Wrap(err, "[sessions.UserID]")
	}
	if !ok || raw == "" {
		return 0, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "[sessions.UserID] invalid value %q", raw)
	}
	return id, nil
}
