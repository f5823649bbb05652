package ports

import (
	"context"
	"time"
)

const (
	SeverityBlock = "block"
	SeverityMask  = "mask"
)

const (
	VerdictClean   = "clean"
	VerdictMasked  = "masked"
	VerdictBlocked = "blocked"
)

// Word is one entry of the profanity table. Term is stored in normalized
// form so lookups never re-fold the table at screen time.
type Word struct {
	Term     string
	Severity string
	AddedAt  time.Time
}

// Match reports one flagged token. Token is the text as it appeared in the
// input; Term is the table entry it folded into.
type Match struct {
	Token    string
	Term     string
	Severity string
}

type ScreenResult struct {
	Verdict string
	Masked  string
	Matches []Match
}

type WordRepository interface {
	SaveWord(ctx context.Context, word Word) error
	DeleteWord(ctx context.Context, term string) error
	GetWord(ctx context.Context, term string) (Word, bool, error)
	ListWords(ctx context.Context) ([]Word, error)
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

type Clock interface {
	Now() time.Time
}
