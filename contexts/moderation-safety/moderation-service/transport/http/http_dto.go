package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ScreenRequest struct {
	Text string `json:"text"`
}

type MatchResponse struct {
	Token    string `json:"token"`
	Term     string `json:"term"`
	Severity string `json:"severity"`
}

type ScreenResponse struct {
	Verdict string          `json:"verdict"`
	Masked  string          `json:"masked"`
	Matches []MatchResponse `json:"matches"`
}

type AddWordRequest struct {
	Term     string `json:"term"`
	Severity string `json:"severity"`
}

type WordResponse struct {
	Term     string `json:"term"`
	Severity string `json:"severity"`
}

type WordsResponse struct {
	Items []WordResponse `json:"items"`
}
