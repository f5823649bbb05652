package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateOfferRequest struct {
	BillID        string  `json:"bill_id"`
	Chamber       string  `json:"chamber"`
	LobbyID       string  `json:"lobby_id"`
	DesiredStance string  `json:"desired_stance"`
	BasePayment   float64 `json:"base_payment"`
}

type OfferResponse struct {
	OfferID       string  `json:"offer_id"`
	BillID        string  `json:"bill_id"`
	Chamber       string  `json:"chamber"`
	LobbyID       string  `json:"lobby_id"`
	DesiredStance string  `json:"desired_stance"`
	BasePayment   float64 `json:"base_payment"`
	Status        string  `json:"status"`
	Replayed      bool    `json:"replayed,omitempty"`
}

type OffersResponse struct {
	Items []OfferResponse `json:"items"`
}

type SettleVoteRequest struct {
	BillID   string `json:"bill_id"`
	Chamber  string `json:"chamber"`
	MemberID string `json:"member_id"`
	State    string `json:"state"`
	Stance   string `json:"stance"`
}

type PaymentResponse struct {
	PaymentID string  `json:"payment_id"`
	OfferID   string  `json:"offer_id"`
	BillID    string  `json:"bill_id"`
	LobbyID   string  `json:"lobby_id"`
	MemberID  string  `json:"member_id"`
	Stance    string  `json:"stance"`
	SeatCount int     `json:"seat_count"`
	Amount    float64 `json:"amount"`
}

type PaymentsResponse struct {
	Items []PaymentResponse `json:"items"`
}

type SettlementResponse struct {
	SettlementID string            `json:"settlement_id"`
	BillID       string            `json:"bill_id"`
	MemberID     string            `json:"member_id"`
	Stance       string            `json:"stance"`
	SeatCount    int               `json:"seat_count"`
	Total        float64           `json:"total"`
	Payments     []PaymentResponse `json:"payments"`
	Replayed     bool              `json:"replayed,omitempty"`
}
