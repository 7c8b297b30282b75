package guard

// State is the lifecycle position of a mounted guard.
type State int

const (
	Unauthenticated State = iota
	Authenticated
	Expiring // renewal in flight
	Terminated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case Expiring:
		return "expiring"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ActivityKind is a qualifying user input event.
type ActivityKind string

const (
	PointerActivity ActivityKind = "pointer"
	KeyActivity     ActivityKind = "key"
)

// Reasons reported with each transition.
const (
	ReasonMount       = "mount"
	ReasonNoSession   = "no_session"
	ReasonMalformed   = "malformed_credential"
	ReasonIdle        = "idle_timeout"
	ReasonHorizon     = "expiry_horizon"
	ReasonRenewed     = "renewed"
	ReasonRenewFailed = "renew_failed"
	ReasonSuperseded  = "superseded"
)

// Transition describes a single state change.
type Transition struct {
	From   State
	To     State
	Reason string
}
