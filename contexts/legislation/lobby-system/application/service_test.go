package application

import (
	"math"
	"testing"

	"statecraft/contexts/legislation/lobby-system/ports"
)

func openOffer(stance string, basePayment float64) ports.LobbyOffer {
	return ports.LobbyOffer{
		OfferID:       "offer-" + stance,
		BillID:        "bill-1",
		Chamber:       "house",
		LobbyID:       "lobby-1",
		DesiredStance: stance,
		BasePayment:   basePayment,
		Status:        OfferStatusOpen,
	}
}

func TestCalculatePaymentMatchesStance(t *testing.T) {
	offers := []ports.LobbyOffer{
		openOffer("aye", 10.5),
		openOffer("aye", 2.25),
		openOffer("nay", 100),
	}

	total, eligible := CalculatePayment(offers, "aye", 52)
	want := 10.5*52 + 2.25*52
	if math.Abs(total-want) > 1e-9 {
		t.Fatalf("total = %v, want %v", total, want)
	}
	if len(eligible) != 2 {
		t.Fatalf("eligible offers = %d, want 2", len(eligible))
	}

	nayTotal, _ := CalculatePayment(offers, "nay", 52)
	if math.Abs(nayTotal-5200) > 1e-9 {
		t.Fatalf("nay total = %v, want 5200", nayTotal)
	}
}

func TestCalculatePaymentAbstainPaysNothing(t *testing.T) {
	offers := []ports.LobbyOffer{
		openOffer("aye", 10),
		openOffer("nay", 10),
	}
	total, eligible := CalculatePayment(offers, "abstain", 52)
	if total != 0 || len(eligible) != 0 {
		t.Fatalf("abstain must pay nothing, got total=%v eligible=%d", total, len(eligible))
	}
	if total, _ := CalculatePayment(offers, "", 52); total != 0 {
		t.Fatalf("missing stance must pay nothing")
	}
	if total, _ := CalculatePayment(offers, "aye", 0); total != 0 {
		t.Fatalf("zero seat count must pay nothing")
	}
}

func TestCalculatePaymentSkipsClosedOffers(t *testing.T) {
	closed := openOffer("aye", 50)
	closed.Status = OfferStatusClosed
	offers := []ports.LobbyOffer{
		closed,
		openOffer("aye", 1),
	}
	total, eligible := CalculatePayment(offers, "aye", 3)
	if total != 3 {
		t.Fatalf("total = %v, want 3 (closed offer excluded)", total)
	}
	if len(eligible) != 1 {
		t.Fatalf("eligible offers = %d, want 1", len(eligible))
	}
}

func TestCalculatePaymentRounding(t *testing.T) {
	offers := []ports.LobbyOffer{
		openOffer("aye", 0.33335),
	}
	total, _ := CalculatePayment(offers, "aye", 1)
	if total != 0.3334 {
		t.Fatalf("total = %v, want 0.3334 after rounding", total)
	}
}
