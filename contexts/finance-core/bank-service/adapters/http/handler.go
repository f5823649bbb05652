package httpadapter

import (
	"context"
	"log/slog"

	"statecraft/contexts/finance-core/bank-service/application"
	"statecraft/contexts/finance-core/bank-service/ports"
	httptransport "statecraft/contexts/finance-core/bank-service/transport/http"
)

type Handler struct {
	Bank   application.Service
	Logger *slog.Logger
}

func (h Handler) TakeLoanHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.TakeLoanRequest,
) (httptransport.LoanResponse, error) {
	loan, replayed, err := h.Bank.TakeLoan(ctx, idempotencyKey, ports.TakeLoanInput{
		OwnerID:   req.OwnerID,
		Principal: req.Principal,
		APR:       req.APR,
	})
	if err != nil {
		return httptransport.LoanResponse{}, err
	}
	resp := mapLoan(loan)
	resp.Replayed = replayed
	return resp, nil
}

func (h Handler) RepayLoanHandler(
	ctx context.Context,
	loanID string,
	idempotencyKey string,
	req httptransport.RepayLoanRequest,
) (httptransport.LoanResponse, error) {
	loan, replayed, err := h.Bank.RepayLoan(ctx, idempotencyKey, loanID, req.Amount)
	if err != nil {
		return httptransport.LoanResponse{}, err
	}
	resp := mapLoan(loan)
	resp.Replayed = replayed
	return resp, nil
}

func (h Handler) GetLoanHandler(ctx context.Context, loanID string) (httptransport.LoanResponse, error) {
	loan, err := h.Bank.GetLoan(ctx, loanID)
	if err != nil {
		return httptransport.LoanResponse{}, err
	}
	return mapLoan(loan), nil
}

func (h Handler) ListLoansHandler(ctx context.Context, ownerID string) (httptransport.LoansResponse, error) {
	loans, err := h.Bank.ListLoansByOwner(ctx, ownerID)
	if err != nil {
		return httptransport.LoansResponse{}, err
	}
	items := make([]httptransport.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		items = append(items, mapLoan(loan))
	}
	return httptransport.LoansResponse{Items: items}, nil
}

func (h Handler) OpenDepositHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.OpenDepositRequest,
) (httptransport.DepositResponse, error) {
	deposit, replayed, err := h.Bank.OpenDeposit(ctx, idempotencyKey, ports.OpenDepositInput{
		OwnerID: req.OwnerID,
		Balance: req.Balance,
		APY:     req.APY,
	})
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	resp := mapDeposit(deposit)
	resp.Replayed = replayed
	return resp, nil
}

func (h Handler) DepositFundsHandler(
	ctx context.Context,
	depositID string,
	idempotencyKey string,
	req httptransport.MoveFundsRequest,
) (httptransport.DepositResponse, error) {
	deposit, replayed, err := h.Bank.DepositFunds(ctx, idempotencyKey, depositID, req.Amount)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	resp := mapDeposit(deposit)
	resp.Replayed = replayed
	return resp, nil
}

func (h Handler) WithdrawDepositHandler(
	ctx context.Context,
	depositID string,
	idempotencyKey string,
	req httptransport.MoveFundsRequest,
) (httptransport.DepositResponse, error) {
	deposit, replayed, err := h.Bank.WithdrawDeposit(ctx, idempotencyKey, depositID, req.Amount)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	resp := mapDeposit(deposit)
	resp.Replayed = replayed
	return resp, nil
}

func (h Handler) GetDepositHandler(ctx context.Context, depositID string) (httptransport.DepositResponse, error) {
	deposit, err := h.Bank.GetDeposit(ctx, depositID)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	return mapDeposit(deposit), nil
}

func (h Handler) ListDepositsHandler(ctx context.Context, ownerID string) (httptransport.DepositsResponse, error) {
	deposits, err := h.Bank.ListDepositsByOwner(ctx, ownerID)
	if err != nil {
		return httptransport.DepositsResponse{}, err
	}
	items := make([]httptransport.DepositResponse, 0, len(deposits))
	for _, deposit := range deposits {
		items = append(items, mapDeposit(deposit))
	}
	return httptransport.DepositsResponse{Items: items}, nil
}

func mapLoan(loan ports.Loan) httptransport.LoanResponse {
	return httptransport.LoanResponse{
		LoanID:      loan.LoanID,
		OwnerID:     loan.OwnerID,
		Principal:   loan.Principal,
		Outstanding: loan.Outstanding,
		APR:         loan.APR,
		Status:      loan.Status,
	}
}

func mapDeposit(deposit ports.Deposit) httptransport.DepositResponse {
	return httptransport.DepositResponse{
		DepositID: deposit.DepositID,
		OwnerID:   deposit.OwnerID,
		Balance:   deposit.Balance,
		APY:       deposit.APY,
	}
}
