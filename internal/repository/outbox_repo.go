package repository

import (
	"context"

	"fitledger/internal/model"

	"gorm.io/gorm"
)

// OutboxRepository persists domain events next to the ledger rows that
// produced them. Rows are only ever inserted inside the business
// transaction; the sender job owns the PENDING -> SENT/FAILED moves.
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Create appends an event. tx must be the enclosing business
// transaction so the event commits atomically with the mutation it
// describes; nil falls back to the bare connection.
func (r *OutboxRepository) Create(ctx context.Context, tx *gorm.DB, msg *model.OutboxMessage) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(msg).Error
}

// ListPending returns the oldest undelivered events, up to limit.
func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]*model.OutboxMessage, error) {
	var messages []*model.OutboxMessage
	err := r.db.WithContext(ctx).
		Where("status = ?", model.OutboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// MarkSent flips a delivered event to SENT.
func (r *OutboxRepository) MarkSent(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.OutboxMessage{}).
		Where("id = ?", id).
		Update("status", model.OutboxStatusSent).Error
}

// RecordFailure bumps the retry counter and, once maxRetries is
// reached, parks the event as FAILED. The status flip is guarded by
// the counter value so concurrent senders cannot fail an event early.
func (r *OutboxRepository) RecordFailure(ctx context.Context, id int64, maxRetries int) error {
	if err := r.db.WithContext(ctx).
		Model(&model.OutboxMessage{}).
		Where("id = ?", id).
		UpdateColumn("retry_count", gorm.Expr("retry_count + 1")).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&model.OutboxMessage{}).
		Where("id = ? AND retry_count >= ? AND status = ?", id, maxRetries, model.OutboxStatusPending).
		Update("status", model.OutboxStatusFailed).Error
}
