package guard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aaron-cedillo/EbenConta-Project/internal/config"
	apperrors "github.com/aaron-cedillo/EbenConta-Project/internal/errors"
	"github.com/aaron-cedillo/EbenConta-Project/internal/metrics"
	"github.com/aaron-cedillo/EbenConta-Project/sessions"
	"github.com/aaron-cedillo/EbenConta-Project/token"
)

const (
	DefaultIdleTimeout   = 60 * time.Minute
	DefaultRenewInterval = 55 * time.Minute
	DefaultRenewHorizon  = 5 * time.Minute
)

// Authenticator is the part of the auth client the guard drives.
type Authenticator interface {
	Renew(ctx context.Context, current string) (string, error)
	Logout()
}

// Guard keeps one mounted session alive or ends it. It owns an idle timer,
// reset by user activity, and a periodic check that renews the credential
// when its expiry falls inside the renew horizon.
//
// Timer callbacks, activity and renewal completions all run under mu, so
// none of them observes another mid-flight. Logout and transition hooks run
// after mu is released.
type Guard struct {
	id            string
	store         sessions.Store
	auth          Authenticator
	clock         Clock
	idleTimeout   time.Duration
	renewInterval time.Duration
	renewHorizon  time.Duration
	metrics       *metrics.Metrics
	onTransition  func(Transition)
	logger        zerolog.Logger

	mu         sync.Mutex
	state      State
	mounted    bool
	unmounted  bool
	ctx        context.Context
	cancel     context.CancelFunc
	idleTimer  Timer
	idleGen    uint64
	checkTimer Timer
	checkGen   uint64
	renewGen   uint64
	done       chan struct{}
}

// Option defines a function type to modify the Guard instance.
type Option func(*Guard)

func WithIdleTimeout(d time.Duration) Option {
	return func(g *Guard) {
		g.idleTimeout = d
	}
}

func WithRenewInterval(d time.Duration) Option {
	return func(g *Guard) {
		g.renewInterval = d
	}
}

func WithRenewHorizon(d time.Duration) Option {
	return func(g *Guard) {
		g.renewHorizon = d
	}
}

// WithConfig takes all three durations from cfg.
func WithConfig(cfg config.SessionConfig) Option {
	return func(g *Guard) {
		g.idleTimeout = cfg.GetIdleTimeout()
		g.renewInterval = cfg.GetRenewInterval()
		g.renewHorizon = cfg.GetRenewHorizon()
	}
}

func WithClock(clock Clock) Option {
	return func(g *Guard) {
		g.clock = clock
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Guard) {
		g.metrics = m
	}
}

// WithOnTransition registers a hook called after every state change.
func WithOnTransition(fn func(Transition)) Option {
	return func(g *Guard) {
		g.onTransition = fn
	}
}

// New creates an unmounted guard in the Unauthenticated state.
func New(store sessions.Store, authenticator Authenticator, options ...Option) (*Guard, error) {
	if store == nil {
		return nil, errors.New("[guard.New] store is required")
	}
	if authenticator == nil {
		return nil, errors.New("[guard.New] authenticator is required")
	}

	g := &Guard{
		id:            uuid.New().String(),
		store:         store,
		auth:          authenticator,
		clock:         RealClock(),
		idleTimeout:   DefaultIdleTimeout,
		renewInterval: DefaultRenewInterval,
		renewHorizon:  DefaultRenewHorizon,
		state:         Unauthenticated,
		done:          make(chan struct{}),
	}
	for _, opt := range options {
		opt(g)
	}

	if g.idleTimeout <= 0 || g.renewInterval <= 0 || g.renewHorizon < 0 {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidConfig, "[guard.New] durations must be positive")
	}
	g.logger = log.With().Str("guard_id", g.id).Logger()
	return g, nil
}

// ID identifies this guard in logs.
func (g *Guard) ID() string {
	return g.id
}

// State returns the current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Done is closed when the guard reaches Terminated.
func (g *Guard) Done() <-chan struct{} {
	return g.done
}

// Mount validates the stored session and starts the timers. A guard mounts
// once; later calls only report the state.
func (g *Guard) Mount(ctx context.Context) State {
	g.mu.Lock()
	if g.mounted || g.unmounted {
		state := g.state
		g.mu.Unlock()
		return state
	}
	g.mounted = true
	g.ctx, g.cancel = context.WithCancel(ctx)

	var fx effects
	if _, reason, ok := g.readCredentialLocked(); !ok {
		fx = g.terminateLocked(reason)
	} else {
		fx = g.transitionLocked(Authenticated, ReasonMount)
		g.armIdleLocked()
		g.armCheckLocked()
		fx = append(fx, g.checkHorizonLocked()...)
	}
	state := g.state
	g.mu.Unlock()

	fx.run()
	return state
}

// Activity records a qualifying input event and gives the idle timer its
// full budget again.
func (g *Guard) Activity(kind ActivityKind) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.activeLocked() {
		return
	}
	if g.metrics != nil {
		g.metrics.Activity.WithLabelValues(string(kind)).Inc()
	}
	g.armIdleLocked()
}

// Unmount stops both timers and cancels any renewal in flight. Results that
// arrive afterwards are ignored.
func (g *Guard) Unmount() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.unmounted {
		return
	}
	g.unmounted = true
	g.stopTimersLocked()
	if g.cancel != nil {
		g.cancel()
	}
	g.logger.Debug().Str("state", g.state.String()).Msg("session guard unmounted")
}

func (g *Guard) activeLocked() bool {
	return g.mounted && !g.unmounted && (g.state == Authenticated || g.state == Expiring)
}

// readCredentialLocked returns the stored credential when it is present and
// carries a readable expiry.
func (g *Guard) readCredentialLocked() (string, string, bool) {
	credential, ok, err := g.store.Get(sessions.FieldCredential)
	if err != nil {
		g.logger.Err(err).Msg("failed to read session store")
		return "", ReasonNoSession, false
	}
	if !ok || credential == "" {
		return "", ReasonNoSession, false
	}

	claims, err := token.Decode(credential)
	if err != nil {
		return "", ReasonMalformed, false
	}
	if _, err := claims.ExpiresAt(); err != nil {
		return "", ReasonMalformed, false
	}
	return credential, "", true
}

func (g *Guard) armIdleLocked() {
	if g.idleTimer != nil {
		g.idleTimer.Stop()
	}
	g.idleGen++
	gen := g.idleGen
	g.idleTimer = g.clock.AfterFunc(g.idleTimeout, func() { g.onIdle(gen) })
}

func (g *Guard) armCheckLocked() {
	if g.checkTimer != nil {
		g.checkTimer.Stop()
	}
	g.checkGen++
	gen := g.checkGen
	g.checkTimer = g.clock.AfterFunc(g.renewInterval, func() { g.onCheck(gen) })
}

func (g *Guard) stopTimersLocked() {
	if g.idleTimer != nil {
		g.idleTimer.Stop()
		g.idleTimer = nil
	}
	if g.checkTimer != nil {
		g.checkTimer.Stop()
		g.checkTimer = nil
	}
	// Callbacks already waiting on mu see a stale generation and return
	g.idleGen++
	g.checkGen++
}

func (g *Guard) onIdle(gen uint64) {
	g.mu.Lock()
	if gen != g.idleGen || !g.activeLocked() {
		g.mu.Unlock()
		return
	}
	fx := g.terminateLocked(ReasonIdle)
	g.mu.Unlock()

	fx.run()
}

func (g *Guard) onCheck(gen uint64) {
	g.mu.Lock()
	if gen != g.checkGen || !g.activeLocked() {
		g.mu.Unlock()
		return
	}
	g.armCheckLocked()
	fx := g.checkHorizonLocked()
	g.mu.Unlock()

	fx.run()
}

// checkHorizonLocked re-reads the store and starts a renewal when the
// credential expires within the horizon.
func (g *Guard) checkHorizonLocked() effects {
	credential, reason, ok := g.readCredentialLocked()
	if !ok {
		return g.terminateLocked(reason)
	}
	if g.state != Authenticated {
		return nil
	}

	claims, _ := token.Decode(credential)
	remaining, _ := claims.Remaining(g.clock.Now())
	if remaining > g.renewHorizon {
		return nil
	}

	g.logger.Info().Dur("remaining", remaining).Msg("credential inside renew horizon")
	fx := g.transitionLocked(Expiring, ReasonHorizon)
	return append(fx, g.renewLocked(credential))
}

// renewLocked returns the effect that starts a renewal on its own goroutine.
func (g *Guard) renewLocked(current string) func() {
	g.renewGen++
	gen := g.renewGen
	ctx := g.ctx

	return func() {
		go func() {
			renewed, err := g.auth.Renew(ctx, current)

			g.mu.Lock()
			fx := g.renewDoneLocked(gen, renewed, err)
			g.mu.Unlock()

			fx.run()
		}()
	}
}

func (g *Guard) renewDoneLocked(gen uint64, renewed string, err error) effects {
	if gen != g.renewGen || g.unmounted || g.state != Expiring {
		g.logger.Debug().Str("state", g.state.String()).Msg("ignoring stale renewal result")
		return nil
	}

	switch {
	case err == nil:
		g.logger.Info().Msg("credential renewed")
		return g.transitionLocked(Authenticated, ReasonRenewed)
	case apperrors.Is(err, apperrors.ErrSessionSuperseded):
		// The store moved on without us. Judge the session by what is there now.
		g.logger.Info().Msg("renewal superseded by a newer session write")
		fx := g.transitionLocked(Authenticated, ReasonSuperseded)
		return append(fx, g.checkHorizonLocked()...)
	default:
		g.logger.Warn().Err(err).Msg("credential renewal failed")
		return g.terminateLocked(ReasonRenewFailed)
	}
}

// terminateLocked moves to Terminated once. Logout runs after the lock is
// released and Done closes after Logout has returned.
func (g *Guard) terminateLocked(reason string) effects {
	if g.state == Terminated {
		return nil
	}
	fx := g.transitionLocked(Terminated, reason)
	g.stopTimersLocked()
	if g.cancel != nil {
		g.cancel()
	}
	fx = append(effects{g.auth.Logout}, fx...)
	return append(fx, func() { close(g.done) })
}

func (g *Guard) transitionLocked(to State, reason string) effects {
	from := g.state
	g.state = to

	g.logger.Info().Str("from", from.String()).Str("to", to.String()).Str("reason", reason).Msg("session state changed")
	if g.metrics != nil {
		g.metrics.Transitions.WithLabelValues(from.String(), to.String(), reason).Inc()
	}
	if g.onTransition == nil {
		return nil
	}
	t := Transition{From: from, To: to, Reason: reason}
	hook := g.onTransition
	return effects{func() { hook(t) }}
}

// effects are side effects deferred until the guard lock is released.
type effects []func()

func (fx effects) run() {
	for _, f := range fx {
		f()
	}
}
