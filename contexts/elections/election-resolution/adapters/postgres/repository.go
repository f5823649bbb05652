package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"statecraft/contexts/elections/election-resolution/domain/entities"
	domainerrors "statecraft/contexts/elections/election-resolution/domain/errors"
	"statecraft/contexts/elections/election-resolution/ports"
)

type resultModel struct {
	ProjectionID string `gorm:"column:projection_id;primaryKey"`
	ElectoralA   int    `gorm:"column:electoral_a"`
	ElectoralB   int    `gorm:"column:electoral_b"`
	TossupVotes  int    `gorm:"column:tossup_votes"`
	Winner       string `gorm:"column:winner"`
	States       []byte `gorm:"column:states;type:jsonb"`
	ResolvedAt   time.Time
}

func (resultModel) TableName() string { return "election_results" }

type idempotencyModel struct {
	Key         string `gorm:"column:key;primaryKey"`
	RequestHash string `gorm:"column:request_hash"`
	EntityID    string `gorm:"column:entity_id"`
	ExpiresAt   time.Time
}

func (idempotencyModel) TableName() string { return "election_idempotency" }

type Repository struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{DB: db, Logger: logger}
}

func (r *Repository) AutoMigrate() error {
	return r.DB.AutoMigrate(&resultModel{}, &idempotencyModel{})
}

func (r *Repository) SaveResult(ctx context.Context, result entities.ElectionResult) error {
	states, err := json.Marshal(result.States)
	if err != nil {
		return err
	}
	row := resultModel{
		ProjectionID: strings.TrimSpace(result.ProjectionID),
		ElectoralA:   result.ElectoralA,
		ElectoralB:   result.ElectoralB,
		TossupVotes:  result.TossupVotes,
		Winner:       result.Winner,
		States:       states,
		ResolvedAt:   result.ResolvedAt.UTC(),
	}
	err = r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		r.logError("election result insert failed", err)
		return err
	}
	return nil
}

func (r *Repository) GetResult(ctx context.Context, projectionID string) (entities.ElectionResult, error) {
	var row resultModel
	err := r.DB.WithContext(ctx).
		Where("projection_id = ?", strings.TrimSpace(projectionID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ElectionResult{}, domainerrors.ErrResultNotFound
	}
	if err != nil {
		r.logError("election result lookup failed", err)
		return entities.ElectionResult{}, err
	}
	return fromResultModel(row)
}

func (r *Repository) ListResults(ctx context.Context, limit int) ([]entities.ElectionResult, error) {
	var rows []resultModel
	err := r.DB.WithContext(ctx).
		Order("resolved_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		r.logError("election result list failed", err)
		return nil, err
	}
	items := make([]entities.ElectionResult, 0, len(rows))
	for _, row := range rows {
		result, err := fromResultModel(row)
		if err != nil {
			return nil, err
		}
		items = append(items, result)
	}
	return items, nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.DB.WithContext(ctx).
		Where("key = ? AND expires_at > ?", strings.TrimSpace(key), now.UTC()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.IdempotencyRecord{}, false, nil
	}
	if err != nil {
		r.logError("election idempotency lookup failed", err)
		return ports.IdempotencyRecord{}, false, err
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		EntityID:    row.EntityID,
		ExpiresAt:   row.ExpiresAt,
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(record.Key),
		RequestHash: record.RequestHash,
		EntityID:    record.EntityID,
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		r.logError("election idempotency insert failed", err)
		return err
	}
	return nil
}

func (r *Repository) logError(message string, err error) {
	if r.Logger == nil {
		return
	}
	r.Logger.Error(message,
		"module", "elections/election-resolution",
		"layer", "adapters/postgres",
		"error", err,
	)
}

func fromResultModel(row resultModel) (entities.ElectionResult, error) {
	var states []entities.StateProjection
	if len(row.States) > 0 {
		if err := json.Unmarshal(row.States, &states); err != nil {
			return entities.ElectionResult{}, err
		}
	}
	return entities.ElectionResult{
		ProjectionID: row.ProjectionID,
		ElectoralA:   row.ElectoralA,
		ElectoralB:   row.ElectoralB,
		TossupVotes:  row.TossupVotes,
		Winner:       row.Winner,
		States:       states,
		ResolvedAt:   row.ResolvedAt,
	}, nil
}

var (
	_ ports.ResultRepository = (*Repository)(nil)
	_ ports.IdempotencyStore = (*Repository)(nil)
)
