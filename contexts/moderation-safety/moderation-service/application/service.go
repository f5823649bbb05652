package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
	"unicode"

	domainerrors "statecraft/contexts/moderation-safety/moderation-service/domain/errors"
	"statecraft/contexts/moderation-safety/moderation-service/ports"
)

type Service struct {
	Repo           ports.WordRepository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// Screen folds the text token by token against the word table. Block hits
// dominate the verdict; mask hits keep the first character and star the rest.
// Matching is per token, so clean words containing a listed term untouched by
// word boundaries are never flagged.
func (s Service) Screen(ctx context.Context, text string) (ports.ScreenResult, error) {
	words, err := s.Repo.ListWords(ctx)
	if err != nil {
		return ports.ScreenResult{}, err
	}
	table := make(map[string]ports.Word, len(words))
	for _, word := range words {
		table[word.Term] = word
	}

	result := ports.ScreenResult{Verdict: ports.VerdictClean}
	var masked strings.Builder
	cursor := 0
	for _, span := range tokenize(text) {
		masked.WriteString(text[cursor:span.start])
		token := text[span.start:span.end]
		cursor = span.end

		word, hit := lookupToken(table, token)
		if !hit {
			masked.WriteString(token)
			continue
		}
		result.Matches = append(result.Matches, ports.Match{
			Token:    token,
			Term:     word.Term,
			Severity: word.Severity,
		})
		if word.Severity == ports.SeverityBlock {
			result.Verdict = ports.VerdictBlocked
		} else if result.Verdict == ports.VerdictClean {
			result.Verdict = ports.VerdictMasked
		}
		masked.WriteString(maskToken(token))
	}
	masked.WriteString(text[cursor:])
	result.Masked = masked.String()

	if result.Verdict == ports.VerdictBlocked {
		resolveLogger(s.Logger).Debug("message blocked by word filter",
			"event", "moderation_message_blocked",
			"module", "moderation-safety/moderation-service",
			"layer", "application",
			"match_count", len(result.Matches),
		)
	}
	return result, nil
}

func (s Service) AddWord(ctx context.Context, idempotencyKey string, term string, severity string) (ports.Word, error) {
	term = foldToken(strings.TrimSpace(term))
	severity = strings.TrimSpace(strings.ToLower(severity))
	if term == "" {
		return ports.Word{}, domainerrors.ErrInvalidInput
	}
	switch severity {
	case ports.SeverityBlock, ports.SeverityMask:
	default:
		return ports.Word{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return ports.Word{}, err
	}

	requestHash := hashStrings("add_word", term, severity)
	var out ports.Word
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			if _, found, err := s.Repo.GetWord(ctx, term); err != nil {
				return nil, err
			} else if found {
				return nil, domainerrors.ErrWordExists
			}
			word := ports.Word{Term: term, Severity: severity, AddedAt: s.now()}
			if err := s.Repo.SaveWord(ctx, word); err != nil {
				return nil, err
			}
			resolveLogger(s.Logger).Debug("word added to filter table",
				"event", "moderation_word_added",
				"module", "moderation-safety/moderation-service",
				"layer", "application",
				"severity", severity,
			)
			return json.Marshal(word)
		},
	)
	return out, err
}

func (s Service) RemoveWord(ctx context.Context, idempotencyKey string, term string) error {
	term = foldToken(strings.TrimSpace(term))
	if term == "" {
		return domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return err
	}

	requestHash := hashStrings("remove_word", term)
	return s.runIdempotent(ctx, idempotencyKey, requestHash,
		func([]byte) error { return nil },
		func() ([]byte, error) {
			if _, found, err := s.Repo.GetWord(ctx, term); err != nil {
				return nil, err
			} else if !found {
				return nil, domainerrors.ErrWordNotFound
			}
			if err := s.Repo.DeleteWord(ctx, term); err != nil {
				return nil, err
			}
			return []byte(`{}`), nil
		},
	)
}

func (s Service) ListWords(ctx context.Context) ([]ports.Word, error) {
	return s.Repo.ListWords(ctx)
}

// lookupToken tries the folded token first, then the run-collapsed form.
// Collapsing only on the second pass keeps legitimate double letters in
// table terms from matching their single-letter cousins.
func lookupToken(table map[string]ports.Word, token string) (ports.Word, bool) {
	folded := foldToken(token)
	if word, ok := table[folded]; ok {
		return word, true
	}
	if word, ok := table[collapseRuns(folded)]; ok {
		return word, true
	}
	return ports.Word{}, false
}

var leetFold = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'@': 'a',
	'$': 's',
}

func foldToken(token string) string {
	var out strings.Builder
	out.Grow(len(token))
	for _, r := range strings.ToLower(token) {
		if sub, ok := leetFold[r]; ok {
			r = sub
		}
		out.WriteRune(r)
	}
	return out.String()
}

func collapseRuns(token string) string {
	var out strings.Builder
	out.Grow(len(token))
	var prev rune = -1
	for _, r := range token {
		if r == prev {
			continue
		}
		out.WriteRune(r)
		prev = r
	}
	return out.String()
}

func maskToken(token string) string {
	runes := []rune(token)
	if len(runes) <= 1 {
		return token
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-1)
}

type span struct {
	start int
	end   int
}

func tokenize(text string) []span {
	var spans []span
	start := -1
	for i, r := range text {
		if isTokenRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, span{start: start, end: i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, span{start: start, end: len(text)})
	}
	return spans
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '@' || r == '$'
}

func (s Service) requireIdempotency(key string) error {
	if strings.TrimSpace(key) == "" {
		return domainerrors.ErrIdempotencyKeyMissing
	}
	return nil
}

func (s Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.GetRecord(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.ResponsePayload)
	}

	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             key,
		RequestHash:     requestHash,
		ResponsePayload: payload,
		ExpiresAt:       now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}
	return decode(payload)
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
