package entities

import (
	"math"
	"time"
)

const (
	LeaderA      = "a"
	LeaderB      = "b"
	LeaderTossup = "tossup"

	WinnerUndecided = "undecided"

	// CallThreshold is the leader win probability at which a state race is
	// called instead of left a tossup.
	CallThreshold = 0.85

	// WinningVotes is the electoral college majority line.
	WinningVotes = 270

	momentumWeight = 0.6
	probabilityMin = 0.02
	probabilityMax = 0.98
)

// StateRace is the polling input for one state.
type StateRace struct {
	State          string
	ElectoralVotes int
	PollMarginPct  float64
	Momentum       float64
	Volatility     float64
}

// StateProjection is the resolved view of one race. WinProbability is the
// leader's, so it is always at least 0.5.
type StateProjection struct {
	State          string
	ElectoralVotes int
	Leader         string
	WinProbability float64
	Called         bool
}

type ElectionResult struct {
	ProjectionID string
	ElectoralA   int
	ElectoralB   int
	TossupVotes  int
	Winner       string
	States       []StateProjection
	ResolvedAt   time.Time
}

// ProjectState resolves one race deterministically. The adjusted margin folds
// momentum into the raw poll margin, and volatility dampens the logistic
// slope so volatile states stay closer to a coin flip.
func ProjectState(race StateRace) StateProjection {
	adjMargin := race.PollMarginPct + race.Momentum*momentumWeight
	probabilityA := 1 / (1 + math.Exp(-adjMargin/(2+race.Volatility)))
	probabilityA = clamp(probabilityA, probabilityMin, probabilityMax)

	leader := LeaderTossup
	winProbability := probabilityA
	switch {
	case probabilityA > 0.5:
		leader = LeaderA
	case probabilityA < 0.5:
		leader = LeaderB
		winProbability = 1 - probabilityA
	default:
		winProbability = 0.5
	}

	called := leader != LeaderTossup && winProbability >= CallThreshold
	return StateProjection{
		State:          race.State,
		ElectoralVotes: race.ElectoralVotes,
		Leader:         leader,
		WinProbability: winProbability,
		Called:         called,
	}
}

// ResolveElection projects every race and sums called electoral votes. Votes
// in uncalled states count as tossup votes and decide nobody.
func ResolveElection(races []StateRace) ElectionResult {
	result := ElectionResult{Winner: WinnerUndecided}
	result.States = make([]StateProjection, 0, len(races))
	for _, race := range races {
		projection := ProjectState(race)
		result.States = append(result.States, projection)
		switch {
		case projection.Called && projection.Leader == LeaderA:
			result.ElectoralA += projection.ElectoralVotes
		case projection.Called && projection.Leader == LeaderB:
			result.ElectoralB += projection.ElectoralVotes
		default:
			result.TossupVotes += projection.ElectoralVotes
		}
	}
	switch {
	case result.ElectoralA >= WinningVotes:
		result.Winner = LeaderA
	case result.ElectoralB >= WinningVotes:
		result.Winner = LeaderB
	}
	return result
}

func clamp(v float64, lo float64, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
