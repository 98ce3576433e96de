package usecase

import "time"

// DefaultMinFillTime is the shortest plausible time for a human to fill the
// quote form.
const DefaultMinFillTime = 3 * time.Second

type GateDecision int

const (
	GateAllow GateDecision = iota
	GateHoneypot
	GateTooFast
)

func (d GateDecision) String() string {
	switch d {
	case GateAllow:
		return "allow"
	case GateHoneypot:
		return "honeypot"
	case GateTooFast:
		return "too_fast"
	default:
		return "unknown"
	}
}

// BotGate is a heuristic, not a security boundary. A blocked attempt must be
// dropped silently so automated clients cannot tell they were caught.
type BotGate struct {
	MinFillTime time.Duration
}

func NewBotGate(minFillTime time.Duration) BotGate {
	if minFillTime <= 0 {
		minFillTime = DefaultMinFillTime
	}
	return BotGate{MinFillTime: minFillTime}
}

func (g BotGate) Check(honeypot string, elapsed time.Duration) GateDecision {
	if honeypot != "" {
		return GateHoneypot
	}
	if elapsed < g.MinFillTime {
		return GateTooFast
	}
	return GateAllow
}
