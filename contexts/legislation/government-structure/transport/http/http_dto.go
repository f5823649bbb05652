package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ChamberResponse struct {
	ID             string  `json:"id"`
	SeatsTotal     int     `json:"seats_total"`
	QuorumFraction float64 `json:"quorum_fraction"`
}

type ChambersResponse struct {
	Items []ChamberResponse `json:"items"`
}

type DelegationItem struct {
	State       string `json:"state"`
	HouseSeats  int    `json:"house_seats"`
	SenateSeats int    `json:"senate_seats"`
	Voting      bool   `json:"voting"`
}

type DelegationsResponse struct {
	Chamber string           `json:"chamber"`
	Items   []DelegationItem `json:"items"`
}

type SeatCountResponse struct {
	Chamber   string `json:"chamber"`
	State     string `json:"state"`
	SeatCount int    `json:"seat_count"`
}
