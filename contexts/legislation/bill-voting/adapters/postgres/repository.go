package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"statecraft/contexts/legislation/bill-voting/domain/entities"
	domainerrors "statecraft/contexts/legislation/bill-voting/domain/errors"
	"statecraft/contexts/legislation/bill-voting/ports"
	"statecraft/internal/shared/events"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&billModel{}, &ballotModel{}, &idempotencyModel{}, &outboxModel{})
}

func (r *Repository) SaveBill(ctx context.Context, bill entities.Bill) error {
	row := billModelFromEntity(bill)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"session_id": row.SessionID,
			"chamber":    row.Chamber,
			"title":      row.Title,
			"sponsor_id": row.SponsorID,
			"status":     row.Status,
			"closed_at":  row.ClosedAt,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("legislation_repo_save_bill_failed", create.Error,
			"bill_id", strings.TrimSpace(bill.BillID),
		)
	}
	return nil
}

func (r *Repository) GetBill(ctx context.Context, billID string) (entities.Bill, error) {
	var row billModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(billID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Bill{}, domainerrors.ErrBillNotFound
		}
		return entities.Bill{}, r.logError("legislation_repo_get_bill_failed", err, "bill_id", strings.TrimSpace(billID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListBillsBySession(ctx context.Context, sessionID string) ([]entities.Bill, error) {
	tx := r.db.WithContext(ctx).Model(&billModel{})
	if strings.TrimSpace(sessionID) != "" {
		tx = tx.Where("session_id = ?", strings.TrimSpace(sessionID))
	}
	var rows []billModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("legislation_repo_list_bills_failed", err,
			"session_id", strings.TrimSpace(sessionID),
		)
	}
	items := make([]entities.Bill, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveVote(ctx context.Context, vote entities.BallotVote) error {
	row := ballotModelFromEntity(vote)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"bill_id":    row.BillID,
			"chamber":    row.Chamber,
			"member_id":  row.MemberID,
			"state":      row.State,
			"stance":     row.Stance,
			"weight":     row.Weight,
			"retracted":  row.Retracted,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("legislation_repo_save_vote_failed", create.Error,
			"vote_id", strings.TrimSpace(vote.VoteID),
			"bill_id", strings.TrimSpace(vote.BillID),
		)
	}
	return nil
}

func (r *Repository) GetVote(ctx context.Context, voteID string) (entities.BallotVote, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voteID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.BallotVote{}, domainerrors.ErrVoteNotFound
		}
		return entities.BallotVote{}, r.logError("legislation_repo_get_vote_failed", err, "vote_id", strings.TrimSpace(voteID))
	}
	return row.toEntity(), nil
}

func (r *Repository) GetVoteByIdentity(
	ctx context.Context,
	billID string,
	memberID string,
) (entities.BallotVote, bool, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("bill_id = ?", strings.TrimSpace(billID)).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		Order("updated_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.BallotVote{}, false, nil
		}
		return entities.BallotVote{}, false, r.logError("legislation_repo_get_vote_by_identity_failed", err,
			"bill_id", strings.TrimSpace(billID),
			"member_id", strings.TrimSpace(memberID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListVotesByBill(ctx context.Context, billID string) ([]entities.BallotVote, error) {
	var rows []ballotModel
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", strings.TrimSpace(billID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("legislation_repo_list_votes_by_bill_failed", err,
			"bill_id", strings.TrimSpace(billID),
		)
	}
	items := make([]entities.BallotVote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		Where("expires_at > ?", now.UTC()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("legislation_repo_get_idempotency_failed", err)
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		EntityID:    row.EntityID,
		ExpiresAt:   row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(record.Key),
		RequestHash: strings.TrimSpace(record.RequestHash),
		EntityID:    strings.TrimSpace(record.EntityID),
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("legislation_repo_put_idempotency_failed", create.Error)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).Error; err != nil {
		return r.logError("legislation_repo_put_idempotency_load_failed", err)
	}
	if existing.RequestHash != row.RequestHash || existing.EntityID != row.EntityID {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	createdAt := envelope.OccurredAtUTC.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	row := outboxModel{
		OutboxID:  outboxID,
		EventType: strings.TrimSpace(envelope.EventType),
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: createdAt,
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("legislation_repo_append_outbox_failed", create.Error, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("legislation_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("legislation_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "legislation/bill-voting",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("legislation repository operation failed", fields...)
	return err
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type billModel struct {
	ID        string     `gorm:"column:id;primaryKey"`
	SessionID string     `gorm:"column:session_id"`
	Chamber   string     `gorm:"column:chamber"`
	Title     string     `gorm:"column:title"`
	SponsorID string     `gorm:"column:sponsor_id"`
	Status    string     `gorm:"column:status"`
	ClosedAt  *time.Time `gorm:"column:closed_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (billModel) TableName() string {
	return "bills"
}

func billModelFromEntity(bill entities.Bill) billModel {
	row := billModel{
		ID:        strings.TrimSpace(bill.BillID),
		SessionID: strings.TrimSpace(bill.SessionID),
		Chamber:   strings.TrimSpace(bill.Chamber),
		Title:     strings.TrimSpace(bill.Title),
		SponsorID: strings.TrimSpace(bill.SponsorID),
		Status:    string(bill.Status),
		ClosedAt:  normalizeOptionalTime(bill.ClosedAt),
		CreatedAt: bill.CreatedAt.UTC(),
		UpdatedAt: bill.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m billModel) toEntity() entities.Bill {
	return entities.Bill{
		BillID:    m.ID,
		SessionID: m.SessionID,
		Chamber:   m.Chamber,
		Title:     m.Title,
		SponsorID: m.SponsorID,
		Status:    entities.BillStatus(m.Status),
		ClosedAt:  normalizeOptionalTime(m.ClosedAt),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type ballotModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	BillID    string    `gorm:"column:bill_id"`
	Chamber   string    `gorm:"column:chamber"`
	MemberID  string    `gorm:"column:member_id"`
	State     string    `gorm:"column:state"`
	Stance    string    `gorm:"column:stance"`
	Weight    int       `gorm:"column:weight"`
	Retracted bool      `gorm:"column:retracted"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ballotModel) TableName() string {
	return "ballot_votes"
}

func ballotModelFromEntity(vote entities.BallotVote) ballotModel {
	row := ballotModel{
		ID:        strings.TrimSpace(vote.VoteID),
		BillID:    strings.TrimSpace(vote.BillID),
		Chamber:   strings.TrimSpace(vote.Chamber),
		MemberID:  strings.TrimSpace(vote.MemberID),
		State:     strings.ToUpper(strings.TrimSpace(vote.State)),
		Stance:    string(vote.Stance),
		Weight:    vote.Weight,
		Retracted: vote.Retracted,
		CreatedAt: vote.CreatedAt.UTC(),
		UpdatedAt: vote.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m ballotModel) toEntity() entities.BallotVote {
	return entities.BallotVote{
		VoteID:    m.ID,
		BillID:    m.BillID,
		Chamber:   m.Chamber,
		MemberID:  m.MemberID,
		State:     m.State,
		Stance:    entities.Stance(m.Stance),
		Weight:    m.Weight,
		Retracted: m.Retracted,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	EntityID    string    `gorm:"column:entity_id"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "bill_voting_idempotency"
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "bill_voting_outbox"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.BillRepository = (*Repository)(nil)
var _ ports.BallotRepository = (*Repository)(nil)
var _ ports.IdempotencyStore = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
