package application

import (
	"context"
	"errors"
	"testing"

	"statecraft/contexts/moderation-safety/moderation-service/adapters/memory"
	domainerrors "statecraft/contexts/moderation-safety/moderation-service/domain/errors"
	"statecraft/contexts/moderation-safety/moderation-service/ports"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	store := memory.NewStore()
	svc := Service{Repo: store, Idempotency: store, Clock: store}
	seed := []ports.Word{
		{Term: "shit", Severity: ports.SeverityBlock},
		{Term: "fuck", Severity: ports.SeverityBlock},
		{Term: "hell", Severity: ports.SeverityMask},
		{Term: "damn", Severity: ports.SeverityMask},
		{Term: "ass", Severity: ports.SeverityMask},
	}
	for _, word := range seed {
		if _, err := svc.AddWord(context.Background(), "seed-"+word.Term, word.Term, word.Severity); err != nil {
			t.Fatalf("seed word %q: %v", word.Term, err)
		}
	}
	return svc
}

func TestScreenCleanText(t *testing.T) {
	svc := newTestService(t)
	result, err := svc.Screen(context.Background(), "trade closed at a fair price")
	if err != nil {
		t.Fatalf("screen failed: %v", err)
	}
	if result.Verdict != ports.VerdictClean {
		t.Fatalf("verdict = %q, want clean", result.Verdict)
	}
	if result.Masked != "trade closed at a fair price" {
		t.Fatalf("clean text must pass through unchanged, got %q", result.Masked)
	}
	if len(result.Matches) != 0 {
		t.Fatalf("clean text produced matches: %+v", result.Matches)
	}
}

func TestScreenMasksMaskTierWords(t *testing.T) {
	svc := newTestService(t)
	result, err := svc.Screen(context.Background(), "what the hell, damn senators")
	if err != nil {
		t.Fatalf("screen failed: %v", err)
	}
	if result.Verdict != ports.VerdictMasked {
		t.Fatalf("verdict = %q, want masked", result.Verdict)
	}
	if result.Masked != "what the h***, d*** senators" {
		t.Fatalf("masked = %q", result.Masked)
	}
	if len(result.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(result.Matches))
	}
}

func TestScreenBlockDominatesMask(t *testing.T) {
	svc := newTestService(t)
	result, err := svc.Screen(context.Background(), "damn this shit")
	if err != nil {
		t.Fatalf("screen failed: %v", err)
	}
	if result.Verdict != ports.VerdictBlocked {
		t.Fatalf("verdict = %q, want blocked", result.Verdict)
	}
	if result.Masked != "d*** this s***" {
		t.Fatalf("masked = %q", result.Masked)
	}
}

func TestScreenFoldsLeetAndRepeats(t *testing.T) {
	svc := newTestService(t)
	cases := []struct {
		text    string
		verdict string
	}{
		{"sh1t happens", ports.VerdictBlocked},
		{"$hit happens", ports.VerdictBlocked},
		{"fuuuuck", ports.VerdictBlocked},
		{"a$$ for sale", ports.VerdictMasked},
		{"d4mn", ports.VerdictMasked},
		{"h3LL no", ports.VerdictMasked},
	}
	for _, tc := range cases {
		result, err := svc.Screen(context.Background(), tc.text)
		if err != nil {
			t.Fatalf("screen %q: %v", tc.text, err)
		}
		if result.Verdict != tc.verdict {
			t.Fatalf("screen %q: verdict = %q, want %q", tc.text, result.Verdict, tc.verdict)
		}
	}
}

func TestScreenMatchesWholeTokensOnly(t *testing.T) {
	svc := newTestService(t)
	// "class", "assign" and "hello" all contain listed terms as substrings.
	result, err := svc.Screen(context.Background(), "hello class, assign the bill")
	if err != nil {
		t.Fatalf("screen failed: %v", err)
	}
	if result.Verdict != ports.VerdictClean {
		t.Fatalf("verdict = %q, want clean: %+v", result.Verdict, result.Matches)
	}

	// Collapsing a listed double letter must not widen the net either.
	result, err = svc.Screen(context.Background(), "as agreed")
	if err != nil {
		t.Fatalf("screen failed: %v", err)
	}
	if result.Verdict != ports.VerdictClean {
		t.Fatalf("verdict = %q, want clean for single-letter cousin", result.Verdict)
	}
}

func TestWordTableManagement(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddWord(ctx, "key-w-1", "grift", "severe"); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("bad severity: got %v, want ErrInvalidInput", err)
	}
	if _, err := svc.AddWord(ctx, "key-w-2", "hell", ports.SeverityBlock); !errors.Is(err, domainerrors.ErrWordExists) {
		t.Fatalf("duplicate term: got %v, want ErrWordExists", err)
	}
	if err := svc.RemoveWord(ctx, "key-w-3", "grift"); !errors.Is(err, domainerrors.ErrWordNotFound) {
		t.Fatalf("remove missing: got %v, want ErrWordNotFound", err)
	}

	if _, err := svc.AddWord(ctx, "key-w-4", "Gr1ft", ports.SeverityBlock); err != nil {
		t.Fatalf("add word: %v", err)
	}
	result, err := svc.Screen(ctx, "classic grift")
	if err != nil {
		t.Fatalf("screen failed: %v", err)
	}
	if result.Verdict != ports.VerdictBlocked {
		t.Fatalf("added term must screen, verdict = %q", result.Verdict)
	}

	if err := svc.RemoveWord(ctx, "key-w-5", "grift"); err != nil {
		t.Fatalf("remove word: %v", err)
	}
	result, err = svc.Screen(ctx, "classic grift")
	if err != nil {
		t.Fatalf("screen failed: %v", err)
	}
	if result.Verdict != ports.VerdictClean {
		t.Fatalf("removed term still screens, verdict = %q", result.Verdict)
	}
}

func TestWordTableRetrySameKeyReplays(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.AddWord(ctx, "key-w-1", "grift", ports.SeverityBlock)
	if err != nil {
		t.Fatalf("add word: %v", err)
	}

	// A retried delivery with the same key replays the stored word instead
	// of reporting it as already listed.
	retried, err := svc.AddWord(ctx, "key-w-1", "grift", ports.SeverityBlock)
	if err != nil {
		t.Fatalf("retried add: %v", err)
	}
	if retried.Term != first.Term || retried.Severity != first.Severity {
		t.Fatalf("retry returned %+v, want replay of %+v", retried, first)
	}

	if _, err := svc.AddWord(ctx, "key-w-1", "grift", ports.SeverityMask); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("reused key: got %v, want ErrIdempotencyConflict", err)
	}
	if _, err := svc.AddWord(ctx, "", "swindle", ports.SeverityMask); !errors.Is(err, domainerrors.ErrIdempotencyKeyMissing) {
		t.Fatalf("missing key: got %v, want ErrIdempotencyKeyMissing", err)
	}

	if err := svc.RemoveWord(ctx, "key-w-2", "grift"); err != nil {
		t.Fatalf("remove word: %v", err)
	}
	// Retrying the removal must not surface a not-found error.
	if err := svc.RemoveWord(ctx, "key-w-2", "grift"); err != nil {
		t.Fatalf("retried remove: %v", err)
	}
	if err := svc.RemoveWord(ctx, "", "grift"); !errors.Is(err, domainerrors.ErrIdempotencyKeyMissing) {
		t.Fatalf("missing key on remove: got %v, want ErrIdempotencyKeyMissing", err)
	}
}
