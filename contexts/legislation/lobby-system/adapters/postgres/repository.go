package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainerrors "statecraft/contexts/legislation/lobby-system/domain/errors"
	"statecraft/contexts/legislation/lobby-system/ports"
	"statecraft/internal/shared/events"
)

type offerModel struct {
	OfferID       string  `gorm:"column:offer_id;primaryKey"`
	BillID        string  `gorm:"column:bill_id;index"`
	Chamber       string  `gorm:"column:chamber"`
	LobbyID       string  `gorm:"column:lobby_id"`
	DesiredStance string  `gorm:"column:desired_stance"`
	BasePayment   float64 `gorm:"column:base_payment"`
	Status        string  `gorm:"column:status"`
	CreatedAt     time.Time
	ClosedAt      *time.Time `gorm:"column:closed_at"`
}

func (offerModel) TableName() string { return "lobby_offers" }

type paymentModel struct {
	PaymentID string  `gorm:"column:payment_id;primaryKey"`
	OfferID   string  `gorm:"column:offer_id;index"`
	BillID    string  `gorm:"column:bill_id;index"`
	LobbyID   string  `gorm:"column:lobby_id"`
	MemberID  string  `gorm:"column:member_id"`
	Stance    string  `gorm:"column:stance"`
	SeatCount int     `gorm:"column:seat_count"`
	Amount    float64 `gorm:"column:amount"`
	PaidAt    time.Time
}

func (paymentModel) TableName() string { return "lobby_payments" }

type idempotencyModel struct {
	Key             string `gorm:"column:key;primaryKey"`
	RequestHash     string `gorm:"column:request_hash"`
	ResponsePayload []byte `gorm:"column:response_payload"`
	ExpiresAt       time.Time
}

func (idempotencyModel) TableName() string { return "lobby_idempotency" }

type dedupModel struct {
	EventID     string `gorm:"column:event_id;primaryKey"`
	PayloadHash string `gorm:"column:payload_hash"`
	ExpiresAt   time.Time
}

func (dedupModel) TableName() string { return "lobby_event_dedup" }

type outboxModel struct {
	OutboxID    string `gorm:"column:outbox_id;primaryKey"`
	EventType   string `gorm:"column:event_type"`
	Payload     []byte `gorm:"column:payload"`
	CreatedAt   time.Time
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "lobby_outbox" }

type Repository struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{DB: db, Logger: logger}
}

func (r *Repository) AutoMigrate() error {
	return r.DB.AutoMigrate(&offerModel{}, &paymentModel{}, &idempotencyModel{}, &dedupModel{}, &outboxModel{})
}

func (r *Repository) CreateOffer(ctx context.Context, offer ports.LobbyOffer) error {
	row := toOfferModel(offer)
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrIdempotencyConflict
		}
		r.logError("lobby offer insert failed", err)
		return err
	}
	return nil
}

func (r *Repository) UpdateOffer(ctx context.Context, offer ports.LobbyOffer) error {
	row := toOfferModel(offer)
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "offer_id"}},
			UpdateAll: true,
		}).
		Create(&row)
	if result.Error != nil {
		r.logError("lobby offer update failed", result.Error)
		return result.Error
	}
	return nil
}

func (r *Repository) GetOffer(ctx context.Context, offerID string) (ports.LobbyOffer, error) {
	var row offerModel
	err := r.DB.WithContext(ctx).
		Where("offer_id = ?", strings.TrimSpace(offerID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.LobbyOffer{}, domainerrors.ErrOfferNotFound
	}
	if err != nil {
		r.logError("lobby offer lookup failed", err)
		return ports.LobbyOffer{}, err
	}
	return fromOfferModel(row), nil
}

func (r *Repository) ListOffersByBill(ctx context.Context, billID string) ([]ports.LobbyOffer, error) {
	var rows []offerModel
	err := r.DB.WithContext(ctx).
		Where("bill_id = ?", strings.TrimSpace(billID)).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		r.logError("lobby offer list failed", err)
		return nil, err
	}
	items := make([]ports.LobbyOffer, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromOfferModel(row))
	}
	return items, nil
}

func (r *Repository) CreatePayments(ctx context.Context, payments []ports.LobbyPayment) error {
	if len(payments) == 0 {
		return nil
	}
	rows := make([]paymentModel, 0, len(payments))
	for _, payment := range payments {
		rows = append(rows, paymentModel{
			PaymentID: payment.PaymentID,
			OfferID:   payment.OfferID,
			BillID:    payment.BillID,
			LobbyID:   payment.LobbyID,
			MemberID:  payment.MemberID,
			Stance:    payment.Stance,
			SeatCount: payment.SeatCount,
			Amount:    payment.Amount,
			PaidAt:    payment.PaidAt.UTC(),
		})
	}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		r.logError("lobby payment insert failed", err)
		return err
	}
	return nil
}

func (r *Repository) ListPaymentsByBill(ctx context.Context, billID string) ([]ports.LobbyPayment, error) {
	var rows []paymentModel
	err := r.DB.WithContext(ctx).
		Where("bill_id = ?", strings.TrimSpace(billID)).
		Order("paid_at asc").
		Find(&rows).Error
	if err != nil {
		r.logError("lobby payment list failed", err)
		return nil, err
	}
	items := make([]ports.LobbyPayment, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.LobbyPayment{
			PaymentID: row.PaymentID,
			OfferID:   row.OfferID,
			BillID:    row.BillID,
			LobbyID:   row.LobbyID,
			MemberID:  row.MemberID,
			Stance:    row.Stance,
			SeatCount: row.SeatCount,
			Amount:    row.Amount,
			PaidAt:    row.PaidAt,
		})
	}
	return items, nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.DB.WithContext(ctx).
		Where("key = ? AND expires_at > ?", strings.TrimSpace(key), now.UTC()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.IdempotencyRecord{}, false, nil
	}
	if err != nil {
		r.logError("lobby idempotency lookup failed", err)
		return ports.IdempotencyRecord{}, false, err
	}
	return ports.IdempotencyRecord{
		Key:             row.Key,
		RequestHash:     row.RequestHash,
		ResponsePayload: row.ResponsePayload,
		ExpiresAt:       row.ExpiresAt,
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: record.ResponsePayload,
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		r.logError("lobby idempotency insert failed", err)
		return err
	}
	return nil
}

func (r *Repository) ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	row := dedupModel{
		EventID:     strings.TrimSpace(eventID),
		PayloadHash: payloadHash,
		ExpiresAt:   expiresAt.UTC(),
	}
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		r.logError("lobby event reserve failed", result.Error)
		return false, result.Error
	}
	return result.RowsAffected == 0, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:  strings.TrimSpace(envelope.EventID),
		EventType: strings.TrimSpace(envelope.EventType),
		Payload:   payload,
		CreatedAt: envelope.OccurredAtUTC.UTC(),
	}
	err = r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		r.logError("lobby outbox insert failed", err)
		return err
	}
	return nil
}

func (r *Repository) logError(message string, err error) {
	if r.Logger == nil {
		return
	}
	r.Logger.Error(message,
		"module", "legislation/lobby-system",
		"layer", "adapters/postgres",
		"error", err,
	)
}

func toOfferModel(offer ports.LobbyOffer) offerModel {
	return offerModel{
		OfferID:       strings.TrimSpace(offer.OfferID),
		BillID:        strings.TrimSpace(offer.BillID),
		Chamber:       offer.Chamber,
		LobbyID:       offer.LobbyID,
		DesiredStance: offer.DesiredStance,
		BasePayment:   offer.BasePayment,
		Status:        offer.Status,
		CreatedAt:     offer.CreatedAt.UTC(),
		ClosedAt:      offer.ClosedAt,
	}
}

func fromOfferModel(row offerModel) ports.LobbyOffer {
	return ports.LobbyOffer{
		OfferID:       row.OfferID,
		BillID:        row.BillID,
		Chamber:       row.Chamber,
		LobbyID:       row.LobbyID,
		DesiredStance: row.DesiredStance,
		BasePayment:   row.BasePayment,
		Status:        row.Status,
		CreatedAt:     row.CreatedAt,
		ClosedAt:      row.ClosedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	_ ports.Repository       = (*Repository)(nil)
	_ ports.IdempotencyStore = (*Repository)(nil)
	_ ports.EventDedupStore  = (*Repository)(nil)
	_ ports.OutboxWriter     = (*Repository)(nil)
)
