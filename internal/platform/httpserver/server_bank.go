package httpserver

import (
	"errors"
	"net/http"

	bankerrors "statecraft/contexts/finance-core/bank-service/domain/errors"
	bankhttp "statecraft/contexts/finance-core/bank-service/transport/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routesBank() {
	s.router.Route("/api/bank/v1", func(r chi.Router) {
		r.Post("/loans", s.handleTakeLoan)
		r.Get("/loans", s.handleListLoans)
		r.Get("/loans/{loan_id}", s.handleGetLoan)
		r.Post("/loans/{loan_id}/repay", s.handleRepayLoan)
		r.Post("/deposits", s.handleOpenDeposit)
		r.Get("/deposits", s.handleListDeposits)
		r.Get("/deposits/{deposit_id}", s.handleGetDeposit)
		r.Post("/deposits/{deposit_id}/deposit", s.handleDepositFunds)
		r.Post("/deposits/{deposit_id}/withdraw", s.handleWithdrawDeposit)
	})
}

func (s *Server) handleTakeLoan(w http.ResponseWriter, r *http.Request) {
	var req bankhttp.TakeLoanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Bank.Handler.TakeLoanHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeBankDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListLoans(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Bank.Handler.ListLoansHandler(r.Context(), r.URL.Query().Get("owner_id"))
	if err != nil {
		writeBankDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLoan(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Bank.Handler.GetLoanHandler(r.Context(), chi.URLParam(r, "loan_id"))
	if err != nil {
		writeBankDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRepayLoan(w http.ResponseWriter, r *http.Request) {
	var req bankhttp.RepayLoanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Bank.Handler.RepayLoanHandler(r.Context(), chi.URLParam(r, "loan_id"), idempotencyKey(r), req)
	if err != nil {
		writeBankDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOpenDeposit(w http.ResponseWriter, r *http.Request) {
	var req bankhttp.OpenDepositRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Bank.Handler.OpenDepositHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeBankDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDeposits(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Bank.Handler.ListDepositsHandler(r.Context(), r.URL.Query().Get("owner_id"))
	if err != nil {
		writeBankDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDeposit(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Bank.Handler.GetDepositHandler(r.Context(), chi.URLParam(r, "deposit_id"))
	if err != nil {
		writeBankDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDepositFunds(w http.ResponseWriter, r *http.Request) {
	var req bankhttp.MoveFundsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Bank.Handler.DepositFundsHandler(r.Context(), chi.URLParam(r, "deposit_id"), idempotencyKey(r), req)
	if err != nil {
		writeBankDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdrawDeposit(w http.ResponseWriter, r *http.Request) {
	var req bankhttp.MoveFundsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Bank.Handler.WithdrawDepositHandler(r.Context(), chi.URLParam(r, "deposit_id"), idempotencyKey(r), req)
	if err != nil {
		writeBankDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeBankDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bankerrors.ErrInvalidInput):
		writeBankError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, bankerrors.ErrPrincipalOutOfBounds):
		writeBankError(w, http.StatusUnprocessableEntity, "principal_out_of_bounds", err.Error())
	case errors.Is(err, bankerrors.ErrLoanNotFound),
		errors.Is(err, bankerrors.ErrDepositNotFound):
		writeBankError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, bankerrors.ErrLoanRepaid),
		errors.Is(err, bankerrors.ErrIdempotencyConflict):
		writeBankError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, bankerrors.ErrInsufficientFunds):
		writeBankError(w, http.StatusUnprocessableEntity, "insufficient_funds", err.Error())
	case errors.Is(err, bankerrors.ErrIdempotencyKeyMissing):
		writeBankError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	default:
		writeBankError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBankError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, bankhttp.ErrorResponse{Code: code, Message: message})
}
