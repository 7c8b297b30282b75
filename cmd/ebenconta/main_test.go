package main

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaron-cedillo/EbenConta-Project/api"
	"github.com/aaron-cedillo/EbenConta-Project/internal/config"
	"github.com/aaron-cedillo/EbenConta-Project/server"
	"github.com/aaron-cedillo/EbenConta-Project/sessions"
	"github.com/aaron-cedillo/EbenConta-Project/users"
	fakeuserrepo "github.com/aaron-cedillo/EbenConta-Project/users/repofake"
)

const (
	testEmail    = "ana@ebenconta.mx"
	testPassword = "s3creta"
)

// setupBackend starts the development backend and points the CLI at it with
// a sqlite session store in a temp dir.
func setupBackend(t *testing.T) {
	t.Helper()

	repo := fakeuserrepo.NewFakeUserRepo()
	hash, err := users.HashPassword(testPassword)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(&users.User{Email: testEmail, Name: "Ana", Role: api.RoleAdmin, PasswordHash: hash}))

	s, err := server.New(config.Defaults(), repo)
	require.NoError(t, err)
	backend := httptest.NewServer(s)
	t.Cleanup(backend.Close)

	t.Setenv("API_BASE_URL", backend.URL)
	t.Setenv("STORE_BACKEND", config.StoreBackendSQLite)
	t.Setenv("STORE_PATH", filepath.Join(t.TempDir(), "session.db"))
	t.Setenv("STORE_PROFILE", "test")
	t.Setenv("LOG_LEVEL", "disabled")
	t.Setenv("ENV", "TEST")
	t.Setenv("METRICS_ADDR", "")
}

func runCLI(t *testing.T, stdinText string, args ...string) (string, error) {
	t.Helper()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	err := run(args, bytes.NewBufferString(stdinText), stdout, stderr)
	return stdout.String(), err
}

func TestRun_Help(t *testing.T) {
	out, err := runCLI(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage: ebenconta")
}

func TestRun_LoginStatusLogout(t *testing.T) {
	setupBackend(t)

	out, err := runCLI(t, "", "login", "-email", testEmail, "-password", testPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Bienvenido, Ana")
	assert.Contains(t, out, "-> /AdminDashboard")

	// The session survives across invocations
	out, err = runCLI(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Nombre:     Ana")
	assert.Contains(t, out, "UsuarioID:  1")
	assert.Contains(t, out, "Rol:        admin")

	out, err = runCLI(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "-> /login")

	out, err = runCLI(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Sin sesión activa")
}

func TestRun_InteractiveLogin(t *testing.T) {
	setupBackend(t)

	out, err := runCLI(t, testEmail+"\n"+testPassword+"\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Correo: ")
	assert.Contains(t, out, "Contraseña: ")
	assert.Contains(t, out, "Bienvenido, Ana")
}

func TestRun_LoginFailureShowsUserMessage(t *testing.T) {
	setupBackend(t)

	_, err := runCLI(t, "", "login", "-email", testEmail, "-password", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Error al iniciar sesión, por favor intenta nuevamente.", err.Error())

	_, err = runCLI(t, "\n", "login", "-email", testEmail)
	require.Error(t, err)
	assert.Equal(t, "Por favor ingresa un correo y una contraseña", err.Error())
}

func TestRun_WatchWithoutSessionRedirects(t *testing.T) {
	setupBackend(t)

	out, err := runCLI(t, "", "watch")
	require.NoError(t, err)
	assert.Contains(t, out, "unauthenticated -> terminated (no_session)")
	assert.Contains(t, out, "-> /login")
}

func TestRun_UsesConfiguredStoreAsProcessDefault(t *testing.T) {
	setupBackend(t)

	// A session left in the process store by someone else is not the CLI's
	leftover := sessions.NewInMemoryStore()
	require.NoError(t, sessions.Save(leftover, sessions.Record{Credential: "a.b.c", DisplayName: "Otro", UserID: 99}))
	sessions.SetDefault(leftover)
	t.Cleanup(func() { sessions.SetDefault(nil) })

	out, err := runCLI(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Sin sesión activa")

	_, err = runCLI(t, "", "login", "-email", testEmail, "-password", testPassword)
	require.NoError(t, err)

	// The configured store is released once the command returns
	require.NotSame(t, leftover, sessions.Default())
	_, ok, err := sessions.Default().Get(sessions.FieldCredential)
	require.NoError(t, err)
	require.False(t, ok)

	out, err = runCLI(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Nombre:     Ana")
}

func TestRun_UnknownCommand(t *testing.T) {
	setupBackend(t)

	_, err := runCLI(t, "", "dance")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
