package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"

	"github.com/aaron-cedillo/EbenConta-Project/internal/config"
	"github.com/aaron-cedillo/EbenConta-Project/internal/logging"
	"github.com/aaron-cedillo/EbenConta-Project/internal/metrics"
	"github.com/aaron-cedillo/EbenConta-Project/server"
	fakeuserrepo "github.com/aaron-cedillo/EbenConta-Project/users/repofake"
)

const (
	appName              = "ebenConta"
	contadorAccessWindow = 30 * 24 * time.Hour
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running server")
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return fmt.Errorf("config.New: %w", err)
	}
	logging.Setup(c.GetLogLevel(), c.GetEnv())
	displayAppname(appName)

	repo := fakeuserrepo.NewFakeUserRepo()
	generated, err := server.InitialiseUsers(repo, server.DefaultSeedUsers(time.Now(), contadorAccessWindow))
	if err != nil {
		return err
	}
	for email, password := range generated {
		log.Info().Str("email", email).Str("password", password).Msg("generated development credentials")
	}

	handler, err := server.New(c, repo,
		server.WithEnv(c.GetEnv()),
		server.WithMetrics(metrics.New()),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: handler}
	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(srv) }()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-waitForStopSignal():
	}
	returnError = shutdown(srv)
	return returnError
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
