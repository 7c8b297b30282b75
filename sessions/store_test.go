package sessions_test

import (
	"path/filepath"
	"testing"

	apperrors "github.com/aaron-cedillo/EbenConta-Project/internal/errors"
	"github.com/aaron-cedillo/EbenConta-Project/sessions"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) sessions.Store

func storeFactories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) sessions.Store {
			return sessions.NewInMemoryStore()
		},
		"sqlite": func(t *testing.T) sessions.Store {
			s, err := sessions.NewSQLiteStore(filepath.Join(t.TempDir(), "session.db"), "tab-1")
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func requireAllAbsent(t *testing.T, store sessions.Store) {
	t.Helper()
	for _, f := range sessions.Fields {
		_, ok, err := store.Get(f)
		require.NoError(t, err)
		require.False(t, ok, "field %s should be absent", f)
	}
}

func TestStoreBehaviour(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Run("fresh store reports absent", func(t *testing.T) {
				requireAllAbsent(t, newStore(t))
			})

			t.Run("fields are independent", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.Set(sessions.FieldRoleExpirationDate, "2025-01-01"))

				value, ok, err := store.Get(sessions.FieldRoleExpirationDate)
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, "2025-01-01", value)

				_, ok, err = store.Get(sessions.FieldCredential)
				require.NoError(t, err)
				require.False(t, ok)
			})

			t.Run("clear removes everything and is idempotent", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, sessions.Save(store, sessions.Record{
					Credential:         "a.b.c",
					DisplayName:        "Ana",
					UserID:             7,
					RoleExpirationDate: "2025-01-01",
				}))

				for i := 0; i < 3; i++ {
					require.NoError(t, store.Clear())
					requireAllAbsent(t, store)
				}
			})

			t.Run("replace credential", func(t *testing.T) {
				store := newStore(t)

				swapped, err := store.ReplaceCredential("old", "new")
				require.NoError(t, err)
				require.False(t, swapped, "nothing stored")

				require.NoError(t, store.Set(sessions.FieldCredential, "old"))
				require.NoError(t, store.Set(sessions.FieldDisplayName, "Ana"))

				swapped, err = store.ReplaceCredential("stale", "new")
				require.NoError(t, err)
				require.False(t, swapped)

				swapped, err = store.ReplaceCredential("old", "new")
				require.NoError(t, err)
				require.True(t, swapped)

				value, _, err := store.Get(sessions.FieldCredential)
				require.NoError(t, err)
				require.Equal(t, "new", value)

				name, _, err := store.Get(sessions.FieldDisplayName)
				require.NoError(t, err)
				require.Equal(t, "Ana", name)
			})
		})
	}
}

func TestSQLiteStorePersistsAndIsolatesProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	first, err := sessions.NewSQLiteStore(path, "tab-1")
	require.NoError(t, err)
	require.NoError(t, first.Set(sessions.FieldCredential, "a.b.c"))
	require.NoError(t, first.Close())

	reopened, err := sessions.NewSQLiteStore(path, "tab-1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	value, ok, err := reopened.Get(sessions.FieldCredential)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a.b.c", value)

	other, err := sessions.NewSQLiteStore(path, "tab-2")
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close() })

	requireAllAbsent(t, other)
	require.NoError(t, other.Clear())

	_, ok, err = reopened.Get(sessions.FieldCredential)
	require.NoError(t, err)
	require.True(t, ok, "clearing one profile leaves the other untouched")
}

func TestNewSQLiteStoreRequiresProfile(t *testing.T) {
	_, err := sessions.NewSQLiteStore(":memory:", "")
	require.Error(t, err)
}

func TestLoadAndSave(t *testing.T) {
	store := sessions.NewInMemoryStore()

	_, err := sessions.Load(store)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	require.Error(t, sessions.Save(store, sessions.Record{DisplayName: "no credential"}))

	require.NoError(t, sessions.Save(store, sessions.Record{Credential: "a.b.c", DisplayName: "Ana", UserID: 7}))

	_, ok, err := store.Get(sessions.FieldRoleExpirationDate)
	require.NoError(t, err)
	require.False(t, ok, "expirationDate is only written when present")

	raw, _, err := store.Get(sessions.FieldUserID)
	require.NoError(t, err)
	require.Equal(t, "7", raw)

	record, err := sessions.Load(store)
	require.NoError(t, err)
	require.Equal(t, sessions.Record{Credential: "a.b.c", DisplayName: "Ana", UserID: 7}, *record)

	name, err := sessions.DisplayName(store)
	require.NoError(t, err)
	require.Equal(t, "Ana", name)

	require.NoError(t, store.Set(sessions.FieldUserID, "seven"))
	_, err = sessions.UserID(store)
	require.Error(t, err)
}

func TestRecordExpirationTime(t *testing.T) {
	exp, err := sessions.Record{}.ExpirationTime()
	require.NoError(t, err)
	require.Nil(t, exp)

	exp, err = sessions.Record{RoleExpirationDate: "2025-01-01"}.ExpirationTime()
	require.NoError(t, err)
	require.Equal(t, 2025, exp.Year())

	exp, err = sessions.Record{RoleExpirationDate: "2025-01-01T00:00:00.000Z"}.ExpirationTime()
	require.NoError(t, err)
	require.Equal(t, 1, exp.Day())

	_, err = sessions.Record{RoleExpirationDate: "someday"}.ExpirationTime()
	require.Error(t, err)
}

func TestDefaultStore(t *testing.T) {
	sessions.SetDefault(nil)
	t.Cleanup(func() { sessions.SetDefault(nil) })

	store := sessions.Default()
	requireAllAbsent(t, store)
	require.Same(t, store, sessions.Default())

	replacement := sessions.NewInMemoryStore()
	sessions.SetDefault(replacement)
	require.Same(t, replacement, sessions.Default())
}
