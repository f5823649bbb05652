package entities

import "testing"

func ballot(stance Stance, weight int) BallotVote {
	return BallotVote{Stance: stance, Weight: weight}
}

func TestResolveTallyPassage(t *testing.T) {
	ballots := []BallotVote{
		ballot(StanceAye, 120),
		ballot(StanceAye, 100),
		ballot(StanceNay, 90),
		ballot(StanceAbstain, 20),
	}
	tally := ResolveTally("bill-1", "house", 435, 0.5, ballots, "")

	if !tally.HasQuorum {
		t.Fatalf("expected quorum with %d seats voting of %d", tally.SeatsVoting, tally.QuorumSeats)
	}
	if !tally.Passed {
		t.Fatalf("expected passage with ayes %d over nays %d", tally.AyeCount, tally.NayCount)
	}
	if tally.Passed != (tally.HasQuorum && tally.AyeCount > tally.NayCount) {
		t.Fatalf("passage rule violated")
	}
	if tally.NeedsRecount {
		t.Fatalf("unexpected recount at margin %.2f%%", tally.MarginPercent)
	}
}

func TestResolveTallyQuorumBlocksPassage(t *testing.T) {
	ballots := []BallotVote{
		ballot(StanceAye, 50),
		ballot(StanceNay, 10),
	}
	tally := ResolveTally("bill-1", "house", 435, 0.5, ballots, "")

	if tally.HasQuorum {
		t.Fatalf("expected no quorum with 60 of %d seats", tally.QuorumSeats)
	}
	if tally.Passed {
		t.Fatalf("bill must not pass without quorum")
	}
	if tally.Tiebreaker != "" {
		t.Fatalf("tiebreaker must not be set without quorum")
	}
}

func TestResolveTallyRecountBand(t *testing.T) {
	// Margin of 1 seat over 401 cast is ~0.25%, inside the (0, 0.5] band.
	ballots := []BallotVote{
		ballot(StanceAye, 201),
		ballot(StanceNay, 200),
		ballot(StanceAbstain, 30),
	}
	tally := ResolveTally("bill-1", "house", 435, 0.5, ballots, "")
	if !tally.NeedsRecount {
		t.Fatalf("expected recount at margin %.4f%%", tally.MarginPercent)
	}
	if !tally.Passed {
		t.Fatalf("narrow wins still pass: ayes %d nays %d quorum %v", tally.AyeCount, tally.NayCount, tally.HasQuorum)
	}

	// Margin of exactly zero is a tie, not a recount.
	tied := ResolveTally("bill-1", "house", 435, 0.5, []BallotVote{
		ballot(StanceAye, 210),
		ballot(StanceNay, 210),
	}, "")
	if tied.NeedsRecount {
		t.Fatalf("tie must not flag recount")
	}
	if tied.Passed {
		t.Fatalf("house tie must fail")
	}
	if tied.Tiebreaker != "" {
		t.Fatalf("house tie must not invoke a tiebreaker")
	}
}

func TestResolveTallyRecountUpperBound(t *testing.T) {
	// 402 ayes vs 400 nays: margin 2/802 = 0.2494% → recount.
	inside := ResolveTally("bill-1", "house", 435, 0.5, []BallotVote{
		ballot(StanceAye, 402),
		ballot(StanceNay, 400),
	}, "")
	if !inside.NeedsRecount {
		t.Fatalf("margin %.4f%% should flag recount", inside.MarginPercent)
	}

	// 205 ayes vs 195 nays: margin 10/400 = 2.5% → no recount.
	outside := ResolveTally("bill-1", "house", 435, 0.5, []BallotVote{
		ballot(StanceAye, 205),
		ballot(StanceNay, 195),
		ballot(StanceAbstain, 30),
	}, "")
	if outside.NeedsRecount {
		t.Fatalf("margin %.4f%% should not flag recount", outside.MarginPercent)
	}
}

func TestResolveTallySenateTiebreaker(t *testing.T) {
	ballots := []BallotVote{
		ballot(StanceAye, 50),
		ballot(StanceNay, 50),
	}

	withVP := ResolveTally("bill-1", "senate", 100, 0.5, ballots, StanceAye)
	if withVP.Tiebreaker != TiebreakerVP {
		t.Fatalf("expected vp tiebreaker, got %q", withVP.Tiebreaker)
	}
	if !withVP.Passed {
		t.Fatalf("vp aye must pass a tied senate bill")
	}

	vpNay := ResolveTally("bill-1", "senate", 100, 0.5, ballots, StanceNay)
	if vpNay.Passed {
		t.Fatalf("vp nay must not pass a tied senate bill")
	}
	if vpNay.Tiebreaker != TiebreakerVP {
		t.Fatalf("tiebreaker is recorded regardless of vp stance")
	}

	noQuorum := ResolveTally("bill-1", "senate", 100, 0.5, []BallotVote{
		ballot(StanceAye, 20),
		ballot(StanceNay, 20),
	}, StanceAye)
	if noQuorum.Tiebreaker != "" {
		t.Fatalf("tie without quorum must not invoke the vp")
	}
	if noQuorum.Passed {
		t.Fatalf("tie without quorum must not pass")
	}
}

func TestResolveTallyRetractedAndAbstain(t *testing.T) {
	retracted := BallotVote{Stance: StanceAye, Weight: 400, Retracted: true}
	ballots := []BallotVote{
		retracted,
		ballot(StanceAye, 150),
		ballot(StanceNay, 100),
		ballot(StanceAbstain, 60),
	}
	tally := ResolveTally("bill-1", "house", 435, 0.5, ballots, "")

	if tally.AyeCount != 150 {
		t.Fatalf("retracted ballot counted: ayes %d", tally.AyeCount)
	}
	if tally.SeatsVoting != 310 {
		t.Fatalf("seats voting = %d, want 310 (abstain counts toward quorum)", tally.SeatsVoting)
	}
	if tally.AbstainBallots != 1 {
		t.Fatalf("abstain ballots = %d", tally.AbstainBallots)
	}
}
