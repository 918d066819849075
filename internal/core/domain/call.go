package domain

// CallPhase is the coarse progress of one call negotiation. The broker only
// ever observes up to Connecting; media-level success is invisible to it,
// so Active is implicit and Ended is expressed by destroying the state.
type CallPhase string

const (
	CallIdle       CallPhase = "idle"
	CallRinging    CallPhase = "ringing"
	CallConnecting CallPhase = "connecting"
	CallActive     CallPhase = "active"
	CallEnded      CallPhase = "ended"
)
