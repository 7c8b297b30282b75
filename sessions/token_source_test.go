package sessions_test

import (
	"encoding/base64"
	"strconv"
	"testing"
	"time"

	"github.com/aaron-cedillo/EbenConta-Project/internal/config"
	apperrors "github.com/aaron-cedillo/EbenConta-Project/internal/errors"
	"github.com/aaron-cedillo/EbenConta-Project/sessions"
	"github.com/stretchr/testify/require"
)

func TestTokenSource(t *testing.T) {
	store := sessions.NewInMemoryStore()
	source := sessions.TokenSource(store)

	_, err := source.Token()
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"exp":` + strconv.FormatInt(exp.Unix(), 10) + `,"role":"admin"}`))
	credential := "h." + payload + ".s"
	require.NoError(t, store.Set(sessions.FieldCredential, credential))

	tok, err := source.Token()
	require.NoError(t, err)
	require.Equal(t, credential, tok.AccessToken)
	require.Equal(t, "Bearer", tok.Type())
	require.True(t, exp.Equal(tok.Expiry))

	require.NoError(t, store.Set(sessions.FieldCredential, "opaque"))
	tok, err = source.Token()
	require.NoError(t, err)
	require.Equal(t, "opaque", tok.AccessToken)
	require.True(t, tok.Expiry.IsZero())
}

func TestOpen(t *testing.T) {
	store, err := sessions.Open(config.Defaults())
	require.NoError(t, err)
	require.IsType(t, &sessions.InMemoryStore{}, store)

	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("STORE_PATH", t.TempDir()+"/session.db")
	cfg, err := config.Load("")
	require.NoError(t, err)

	store, err = sessions.Open(cfg)
	require.NoError(t, err)
	sqliteStore, ok := store.(*sessions.SQLiteStore)
	require.True(t, ok)
	require.NoError(t, sqliteStore.Close())
}
