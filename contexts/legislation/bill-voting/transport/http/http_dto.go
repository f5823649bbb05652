package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateBillRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Chamber   string `json:"chamber"`
	Title     string `json:"title"`
}

type BillResponse struct {
	BillID    string `json:"bill_id"`
	SessionID string `json:"session_id,omitempty"`
	Chamber   string `json:"chamber"`
	Title     string `json:"title"`
	SponsorID string `json:"sponsor_id"`
	Status    string `json:"status"`
}

type BillsResponse struct {
	Items []BillResponse `json:"items"`
}

type CastVoteRequest struct {
	State  string `json:"state"`
	Stance string `json:"stance"`
}

type VoteResponse struct {
	VoteID    string `json:"vote_id"`
	BillID    string `json:"bill_id"`
	Chamber   string `json:"chamber"`
	MemberID  string `json:"member_id"`
	State     string `json:"state"`
	Stance    string `json:"stance"`
	Weight    int    `json:"weight"`
	Retracted bool   `json:"retracted"`
	Replayed  bool   `json:"replayed"`
	WasUpdate bool   `json:"was_update"`
}

type VotesResponse struct {
	Items []VoteResponse `json:"items"`
}

type CloseVotingRequest struct {
	VPStance string `json:"vp_stance,omitempty"`
}

type TallyResponse struct {
	BillID         string  `json:"bill_id"`
	Chamber        string  `json:"chamber"`
	AyeBallots     int     `json:"aye_ballots"`
	NayBallots     int     `json:"nay_ballots"`
	AbstainBallots int     `json:"abstain_ballots"`
	AyeCount       int     `json:"aye_count"`
	NayCount       int     `json:"nay_count"`
	SeatsTotal     int     `json:"seats_total"`
	SeatsVoting    int     `json:"seats_voting"`
	QuorumSeats    int     `json:"quorum_seats"`
	HasQuorum      bool    `json:"has_quorum"`
	MarginPercent  float64 `json:"margin_percent"`
	Passed         bool    `json:"passed"`
	NeedsRecount   bool    `json:"needs_recount"`
	Tiebreaker     string  `json:"tiebreaker,omitempty"`
}
