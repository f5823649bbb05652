package httpadapter

import (
	"context"
	"log/slog"

	"statecraft/contexts/legislation/lobby-system/application"
	"statecraft/contexts/legislation/lobby-system/ports"
	httptransport "statecraft/contexts/legislation/lobby-system/transport/http"
)

type Handler struct {
	Offers application.Service
	Logger *slog.Logger
}

func (h Handler) CreateOfferHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.CreateOfferRequest,
) (httptransport.OfferResponse, error) {
	offer, replayed, err := h.Offers.CreateOffer(ctx, idempotencyKey, ports.CreateOfferInput{
		BillID:        req.BillID,
		Chamber:       req.Chamber,
		LobbyID:       req.LobbyID,
		DesiredStance: req.DesiredStance,
		BasePayment:   req.BasePayment,
	})
	if err != nil {
		return httptransport.OfferResponse{}, err
	}
	resp := mapOffer(offer)
	resp.Replayed = replayed
	return resp, nil
}

func (h Handler) CloseOfferHandler(ctx context.Context, offerID string) (httptransport.OfferResponse, error) {
	offer, err := h.Offers.CloseOffer(ctx, offerID)
	if err != nil {
		return httptransport.OfferResponse{}, err
	}
	return mapOffer(offer), nil
}

func (h Handler) ListOffersHandler(ctx context.Context, billID string) (httptransport.OffersResponse, error) {
	offers, err := h.Offers.ListOffersByBill(ctx, billID)
	if err != nil {
		return httptransport.OffersResponse{}, err
	}
	items := make([]httptransport.OfferResponse, 0, len(offers))
	for _, offer := range offers {
		items = append(items, mapOffer(offer))
	}
	return httptransport.OffersResponse{Items: items}, nil
}

func (h Handler) SettleVoteHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.SettleVoteRequest,
) (httptransport.SettlementResponse, error) {
	settlement, replayed, err := h.Offers.SettleVote(ctx, idempotencyKey, ports.SettleVoteInput{
		BillID:   req.BillID,
		Chamber:  req.Chamber,
		MemberID: req.MemberID,
		State:    req.State,
		Stance:   req.Stance,
	})
	if err != nil {
		return httptransport.SettlementResponse{}, err
	}
	resp := mapSettlement(settlement)
	resp.Replayed = replayed
	return resp, nil
}

func (h Handler) ListPaymentsHandler(ctx context.Context, billID string) (httptransport.PaymentsResponse, error) {
	payments, err := h.Offers.ListPaymentsByBill(ctx, billID)
	if err != nil {
		return httptransport.PaymentsResponse{}, err
	}
	items := make([]httptransport.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		items = append(items, mapPayment(payment))
	}
	return httptransport.PaymentsResponse{Items: items}, nil
}

func mapOffer(offer ports.LobbyOffer) httptransport.OfferResponse {
	return httptransport.OfferResponse{
		OfferID:       offer.OfferID,
		BillID:        offer.BillID,
		Chamber:       offer.Chamber,
		LobbyID:       offer.LobbyID,
		DesiredStance: offer.DesiredStance,
		BasePayment:   offer.BasePayment,
		Status:        offer.Status,
	}
}

func mapPayment(payment ports.LobbyPayment) httptransport.PaymentResponse {
	return httptransport.PaymentResponse{
		PaymentID: payment.PaymentID,
		OfferID:   payment.OfferID,
		BillID:    payment.BillID,
		LobbyID:   payment.LobbyID,
		MemberID:  payment.MemberID,
		Stance:    payment.Stance,
		SeatCount: payment.SeatCount,
		Amount:    payment.Amount,
	}
}

func mapSettlement(settlement ports.Settlement) httptransport.SettlementResponse {
	payments := make([]httptransport.PaymentResponse, 0, len(settlement.Payments))
	for _, payment := range settlement.Payments {
		payments = append(payments, mapPayment(payment))
	}
	return httptransport.SettlementResponse{
		SettlementID: settlement.SettlementID,
		BillID:       settlement.BillID,
		MemberID:     settlement.MemberID,
		Stance:       settlement.Stance,
		SeatCount:    settlement.SeatCount,
		Total:        settlement.Total,
		Payments:     payments,
	}
}
