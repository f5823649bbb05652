package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chatservice "statecraft/contexts/community-experience/chat-service"
	chatports "statecraft/contexts/community-experience/chat-service/ports"
	marketservice "statecraft/contexts/community-experience/market-service"
	electionresolution "statecraft/contexts/elections/election-resolution"
	bankservice "statecraft/contexts/finance-core/bank-service"
	energyservice "statecraft/contexts/finance-core/energy-service"
	consultingservice "statecraft/contexts/internal-ops/consulting-service"
	billvoting "statecraft/contexts/legislation/bill-voting"
	governmentstructure "statecraft/contexts/legislation/government-structure"
	lobbysystem "statecraft/contexts/legislation/lobby-system"
	moderationservice "statecraft/contexts/moderation-safety/moderation-service"
	crimeservice "statecraft/contexts/underworld/crime-service"
	"statecraft/internal/platform/ratelimit"
)

func newTestModules(t *testing.T) Modules {
	t.Helper()
	government, err := governmentstructure.NewSeedModule(nil)
	if err != nil {
		t.Fatalf("seed module: %v", err)
	}
	moderation, err := moderationservice.NewInMemoryModule(nil, nil)
	if err != nil {
		t.Fatalf("moderation module: %v", err)
	}
	filter := chatservice.FilterFunc(func(ctx context.Context, text string) (chatports.ScreenResult, error) {
		result, err := moderation.Filter.Screen(ctx, text)
		if err != nil {
			return chatports.ScreenResult{}, err
		}
		return chatports.ScreenResult{Verdict: result.Verdict, Masked: result.Masked}, nil
	})
	return Modules{
		Government: government,
		Voting:     billvoting.NewInMemoryModule(nil, government.Structure, nil),
		Lobby:      lobbysystem.NewInMemoryModule(nil, government.Structure, nil),
		Elections:  electionresolution.NewInMemoryModule(nil),
		Bank:       bankservice.NewInMemoryModule(nil),
		Energy:     energyservice.NewInMemoryModule(nil, nil),
		Crime:      crimeservice.NewInMemoryModule(nil),
		Chat:       chatservice.NewInMemoryModule(filter, nil, nil),
		Market:     marketservice.NewInMemoryModule(nil, nil),
		Consulting: consultingservice.NewInMemoryModule(nil),
		Moderation: moderation,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(newTestModules(t), nil, nil, "")
}

func doJSON(t *testing.T, server *Server, method string, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

func TestBillVoteFlowOverHTTP(t *testing.T) {
	server := newTestServer(t)

	rr := doJSON(t, server, http.MethodPost, "/api/legislation/v1/bills",
		`{"session_id":"s-1","chamber":"house","title":"Energy Act"}`,
		map[string]string{"X-User-Id": "rep-tx-1", "Idempotency-Key": "key-bill-1"},
	)
	if rr.Code != http.StatusOK {
		t.Fatalf("create bill: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var bill struct {
		BillID string `json:"bill_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &bill); err != nil {
		t.Fatalf("decode bill: %v", err)
	}
	if bill.Status != "draft" {
		t.Fatalf("expected draft bill, got %q", bill.Status)
	}

	rr = doJSON(t, server, http.MethodPost, "/api/legislation/v1/bills/"+bill.BillID+"/open", "",
		map[string]string{"X-User-Id": "rep-tx-1", "Idempotency-Key": "key-open-1"},
	)
	if rr.Code != http.StatusOK {
		t.Fatalf("open voting: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/legislation/v1/bills/"+bill.BillID+"/votes",
		`{"state":"CA","stance":"aye"}`,
		map[string]string{"X-User-Id": "rep-ca-1", "Idempotency-Key": "key-vote-1"},
	)
	if rr.Code != http.StatusOK {
		t.Fatalf("cast vote: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var vote struct {
		Weight int `json:"weight"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &vote); err != nil {
		t.Fatalf("decode vote: %v", err)
	}
	if vote.Weight != 52 {
		t.Fatalf("expected CA house weight 52, got %d", vote.Weight)
	}

	rr = doJSON(t, server, http.MethodGet, "/api/legislation/v1/bills/"+bill.BillID+"/tally", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("tally: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var tally struct {
		AyeCount  int  `json:"aye_count"`
		HasQuorum bool `json:"has_quorum"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &tally); err != nil {
		t.Fatalf("decode tally: %v", err)
	}
	if tally.AyeCount != 52 {
		t.Fatalf("expected aye count 52, got %d", tally.AyeCount)
	}
	if tally.HasQuorum {
		t.Fatal("one delegation should not reach house quorum")
	}
}

func TestCreateBillRequiresUserHeader(t *testing.T) {
	server := newTestServer(t)
	rr := doJSON(t, server, http.MethodPost, "/api/legislation/v1/bills",
		`{"chamber":"house","title":"Orphan Bill"}`,
		map[string]string{"Idempotency-Key": "key-no-user"},
	)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestModerationScreenEndpointMasks(t *testing.T) {
	server := newTestServer(t)
	rr := doJSON(t, server, http.MethodPost, "/api/moderation/v1/screen",
		`{"text":"what the hell"}`, nil,
	)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var screen struct {
		Verdict string `json:"verdict"`
		Masked  string `json:"masked"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &screen); err != nil {
		t.Fatalf("decode screen: %v", err)
	}
	if screen.Verdict != "masked" {
		t.Fatalf("expected masked verdict, got %q", screen.Verdict)
	}
	if screen.Masked != "what the h***" {
		t.Fatalf("unexpected masked text %q", screen.Masked)
	}
}

func TestUnknownChamberMapsToNotFound(t *testing.T) {
	server := newTestServer(t)
	rr := doJSON(t, server, http.MethodGet, "/api/government/v1/chambers/parliament/delegations", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRateLimiterReturns429(t *testing.T) {
	limiter := ratelimit.NewLimiter(time.Minute, 2)
	server := New(newTestModules(t), limiter, nil, "")

	for i := 0; i < 2; i++ {
		rr := doJSON(t, server, http.MethodGet, "/healthz", "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rr.Code)
		}
	}
	rr := doJSON(t, server, http.MethodGet, "/healthz", "", nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on throttled response")
	}
}
