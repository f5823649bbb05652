package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TakeLoanRequest struct {
	OwnerID   string  `json:"owner_id"`
	Principal float64 `json:"principal"`
	APR       float64 `json:"apr"`
}

type RepayLoanRequest struct {
	Amount float64 `json:"amount"`
}

type LoanResponse struct {
	LoanID      string  `json:"loan_id"`
	OwnerID     string  `json:"owner_id"`
	Principal   float64 `json:"principal"`
	Outstanding float64 `json:"outstanding"`
	APR         float64 `json:"apr"`
	Status      string  `json:"status"`
	Replayed    bool    `json:"replayed,omitempty"`
}

type LoansResponse struct {
	Items []LoanResponse `json:"items"`
}

type OpenDepositRequest struct {
	OwnerID string  `json:"owner_id"`
	Balance float64 `json:"balance"`
	APY     float64 `json:"apy"`
}

type MoveFundsRequest struct {
	Amount float64 `json:"amount"`
}

type DepositResponse struct {
	DepositID string  `json:"deposit_id"`
	OwnerID   string  `json:"owner_id"`
	Balance   float64 `json:"balance"`
	APY       float64 `json:"apy"`
	Replayed  bool    `json:"replayed,omitempty"`
}

type DepositsResponse struct {
	Items []DepositResponse `json:"items"`
}
