package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StateRaceRequest struct {
	State          string  `json:"state"`
	ElectoralVotes int     `json:"electoral_votes"`
	PollMarginPct  float64 `json:"poll_margin_pct"`
	Momentum       float64 `json:"momentum"`
	Volatility     float64 `json:"volatility"`
}

type ResolveElectionRequest struct {
	Races []StateRaceRequest `json:"races"`
}

type StateProjectionResponse struct {
	State          string  `json:"state"`
	ElectoralVotes int     `json:"electoral_votes"`
	Leader         string  `json:"leader"`
	WinProbability float64 `json:"win_probability"`
	Called         bool    `json:"called"`
}

type ElectionResultResponse struct {
	ProjectionID string                    `json:"projection_id"`
	ElectoralA   int                       `json:"electoral_a"`
	ElectoralB   int                       `json:"electoral_b"`
	TossupVotes  int                       `json:"tossup_votes"`
	Winner       string                    `json:"winner"`
	States       []StateProjectionResponse `json:"states"`
	Replayed     bool                      `json:"replayed,omitempty"`
}

type ElectionResultsResponse struct {
	Items []ElectionResultResponse `json:"items"`
}
