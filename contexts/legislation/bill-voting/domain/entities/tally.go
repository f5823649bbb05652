package entities

import (
	"math"
	"strings"
)

// TiebreakerVP marks a senate tally resolved by the vice president.
const TiebreakerVP = "vp"

type VoteTally struct {
	BillID  string
	Chamber string

	AyeBallots     int
	NayBallots     int
	AbstainBallots int

	// Seat-weighted counts. These, not the raw ballot counts, decide passage.
	AyeCount int
	NayCount int

	SeatsTotal  int
	SeatsVoting int
	QuorumSeats int
	HasQuorum   bool

	MarginPercent float64
	Passed        bool
	NeedsRecount  bool
	Tiebreaker    string
}

// ResolveTally aggregates non-retracted ballots and applies the passage
// rules:
//
//   - quorum: weighted seats voting (abstentions included) must reach
//     ceil(quorumFraction × seatsTotal)
//   - passed: quorum met and weighted ayes strictly exceed weighted nays
//   - recount: margin as a percentage of aye+nay weight is in (0, 0.5]
//   - tiebreaker: a senate tie with quorum goes to the vice president; the
//     bill then passes only on an aye from the VP. House ties fail.
func ResolveTally(
	billID string,
	chamber string,
	seatsTotal int,
	quorumFraction float64,
	ballots []BallotVote,
	vpStance Stance,
) VoteTally {
	tally := VoteTally{
		BillID:     billID,
		Chamber:    strings.ToLower(strings.TrimSpace(chamber)),
		SeatsTotal: seatsTotal,
	}

	for _, ballot := range ballots {
		if ballot.Retracted {
			continue
		}
		tally.SeatsVoting += ballot.Weight
		switch ballot.Stance {
		case StanceAye:
			tally.AyeBallots++
			tally.AyeCount += ballot.Weight
		case StanceNay:
			tally.NayBallots++
			tally.NayCount += ballot.Weight
		case StanceAbstain:
			tally.AbstainBallots++
		}
	}

	tally.QuorumSeats = int(math.Ceil(quorumFraction * float64(seatsTotal)))
	tally.HasQuorum = tally.SeatsVoting >= tally.QuorumSeats

	votesCast := tally.AyeCount + tally.NayCount
	if votesCast > 0 {
		margin := float64(tally.AyeCount - tally.NayCount)
		if margin < 0 {
			margin = -margin
		}
		tally.MarginPercent = margin / float64(votesCast) * 100
	}

	tally.Passed = tally.HasQuorum && tally.AyeCount > tally.NayCount
	tally.NeedsRecount = tally.MarginPercent > 0 && tally.MarginPercent <= 0.5

	if tally.Chamber == "senate" &&
		tally.HasQuorum &&
		votesCast > 0 &&
		tally.AyeCount == tally.NayCount {
		tally.Tiebreaker = TiebreakerVP
		if vpStance == StanceAye {
			tally.Passed = true
		}
	}
	return tally
}
