package entities

import "time"

type Stance string

const (
	StanceAye     Stance = "aye"
	StanceNay     Stance = "nay"
	StanceAbstain Stance = "abstain"
)

type BillStatus string

const (
	BillStatusDraft  BillStatus = "draft"
	BillStatusVoting BillStatus = "voting"
	BillStatusPassed BillStatus = "passed"
	BillStatusFailed BillStatus = "failed"
)

type Bill struct {
	BillID    string
	SessionID string
	Chamber   string
	Title     string
	SponsorID string
	Status    BillStatus
	ClosedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BallotVote is one member's floor vote. Weight is the member's state
// delegation tally weight snapshotted at cast time, so a later apportionment
// change never rewrites a recorded ballot.
type BallotVote struct {
	VoteID    string
	BillID    string
	Chamber   string
	MemberID  string
	State     string
	Stance    Stance
	Weight    int
	Retracted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
