package httpadapter

import (
	"context"
	"log/slog"

	"statecraft/contexts/moderation-safety/moderation-service/application"
	httptransport "statecraft/contexts/moderation-safety/moderation-service/transport/http"
)

type Handler struct {
	Filter application.Service
	Logger *slog.Logger
}

func (h Handler) ScreenHandler(ctx context.Context, req httptransport.ScreenRequest) (httptransport.ScreenResponse, error) {
	result, err := h.Filter.Screen(ctx, req.Text)
	if err != nil {
		return httptransport.ScreenResponse{}, err
	}
	matches := make([]httptransport.MatchResponse, 0, len(result.Matches))
	for _, match := range result.Matches {
		matches = append(matches, httptransport.MatchResponse{
			Token:    match.Token,
			Term:     match.Term,
			Severity: match.Severity,
		})
	}
	return httptransport.ScreenResponse{
		Verdict: result.Verdict,
		Masked:  result.Masked,
		Matches: matches,
	}, nil
}

func (h Handler) AddWordHandler(ctx context.Context, idempotencyKey string, req httptransport.AddWordRequest) (httptransport.WordResponse, error) {
	word, err := h.Filter.AddWord(ctx, idempotencyKey, req.Term, req.Severity)
	if err != nil {
		return httptransport.WordResponse{}, err
	}
	return httptransport.WordResponse{Term: word.Term, Severity: word.Severity}, nil
}

func (h Handler) RemoveWordHandler(ctx context.Context, idempotencyKey string, term string) error {
	return h.Filter.RemoveWord(ctx, idempotencyKey, term)
}

func (h Handler) ListWordsHandler(ctx context.Context) (httptransport.WordsResponse, error) {
	words, err := h.Filter.ListWords(ctx)
	if err != nil {
		return httptransport.WordsResponse{}, err
	}
	items := make([]httptransport.WordResponse, 0, len(words))
	for _, word := range words {
		items = append(items, httptransport.WordResponse{Term: word.Term, Severity: word.Severity})
	}
	return httptransport.WordsResponse{Items: items}, nil
}
