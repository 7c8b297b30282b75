package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/aaron-cedillo/EbenConta-Project/auth"
	"github.com/aaron-cedillo/EbenConta-Project/guard"
	"github.com/aaron-cedillo/EbenConta-Project/internal/config"
	apperrors "github.com/aaron-cedillo/EbenConta-Project/internal/errors"
	"github.com/aaron-cedillo/EbenConta-Project/internal/logging"
	"github.com/aaron-cedillo/EbenConta-Project/internal/metrics"
	"github.com/aaron-cedillo/EbenConta-Project/sessions"
)

const usage = `Usage: ebenconta <command> [flags]

Commands:
  login   -email <email> [-password <password>]   start a session
  status                                          show the stored session
  logout                                          end the session
  watch                                           keep the session alive; each input line counts as activity
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles what every command needs.
type app struct {
	cfg     config.Config
	client  *auth.Client
	metrics *metrics.Metrics
	stdin   *bufio.Reader
	rawIn   io.Reader
	stdout  io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(stdout, figure.NewFigure("ebenConta", "cybermedium", true).String())
		fmt.Fprint(stdout, usage)
		return nil
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	logging.Setup(cfg.GetLogLevel(), cfg.GetEnv())

	store, err := sessions.Open(cfg)
	if err != nil {
		return err
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}
	if cfg.GetStoreBackend() == config.StoreBackendMemory {
		log.Warn().Msg("in-memory session store: the session ends with this process")
	}
	// Commands and the guard all read the process-wide store
	sessions.SetDefault(store)
	defer sessions.SetDefault(nil)

	m := metrics.New()
	client, err := auth.NewClient(cfg, sessions.Default(),
		auth.WithMetrics(m),
		auth.WithNavigator(auth.NavigatorFunc(func(route auth.Route) {
			fmt.Fprintf(stdout, "-> %s\n", route)
		})),
	)
	if err != nil {
		return err
	}

	a := &app{
		cfg:     cfg,
		client:  client,
		metrics: m,
		stdin:   bufio.NewReader(stdin),
		rawIn:   stdin,
		stdout:  stdout,
	}

	switch args[0] {
	case "login":
		return a.login(args[1:], stderr)
	case "status":
		return a.status()
	case "logout":
		a.client.Logout()
		return nil
	case "watch":
		return a.watch()
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) login(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(stderr)
	email := fs.String("email", "", "Email")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		fmt.Fprint(a.stdout, "Correo: ")
		line, err := a.readLine()
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		*email = line
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(a.stdout, "Contraseña: ")
		var err error
		password, err = a.readPassword()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(a.stdout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.GetHTTPTimeout())
	defer cancel()

	result, err := a.client.Login(ctx, *email, password)
	if err != nil {
		return errors.New(auth.UserMessage(err))
	}

	fmt.Fprintf(a.stdout, "Bienvenido, %s\n", result.DisplayName)
	fmt.Fprintf(a.stdout, "-> %s\n", result.Target)
	return nil
}

func (a *app) status() error {
	identity, err := auth.CurrentIdentity(sessions.Default())
	if apperrors.Is(err, apperrors.ErrSessionNotFound) {
		fmt.Fprintln(a.stdout, "Sin sesión activa")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Nombre:     %s\n", identity.DisplayName)
	fmt.Fprintf(a.stdout, "UsuarioID:  %d\n", identity.UserID)
	fmt.Fprintf(a.stdout, "Rol:        %s\n", identity.Role)
	fmt.Fprintf(a.stdout, "Expira:     %s (%s)\n", identity.ExpiresAt.Format(time.RFC3339), time.Until(identity.ExpiresAt).Round(time.Second))
	if identity.RoleExpirationDate != "" {
		fmt.Fprintf(a.stdout, "Acceso:     hasta %s\n", identity.RoleExpirationDate)
	}
	return nil
}

func (a *app) watch() error {
	g, err := guard.New(sessions.Default(), a.client,
		guard.WithConfig(a.cfg),
		guard.WithMetrics(a.metrics),
		guard.WithOnTransition(func(t guard.Transition) {
			fmt.Fprintf(a.stdout, "[%s] %s -> %s (%s)\n", time.Now().Format(time.TimeOnly), t.From, t.To, t.Reason)
		}),
	)
	if err != nil {
		return err
	}

	if addr := a.cfg.GetMetricsAddr(); addr != "" {
		srv := &http.Server{Addr: addr, Handler: a.metrics.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Err(err).Msg("metrics server stopped")
			}
		}()
		defer srv.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if g.Mount(ctx) == guard.Terminated {
		return nil
	}
	defer g.Unmount()

	go func() {
		for {
			if _, err := a.readLine(); err != nil {
				return
			}
			g.Activity(guard.KeyActivity)
		}
	}()

	select {
	case <-g.Done():
	case <-ctx.Done():
	}
	return nil
}

func (a *app) readLine() (string, error) {
	line, err := a.stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) readPassword() (string, error) {
	if f, ok := a.rawIn.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	return a.readLine()
}
