package repository

import (
	"context"
	"errors"

	"fitledger/internal/model"

	"gorm.io/gorm"
)

var ErrGrantNotFound = errors.New("registro de concessão não encontrado")

// GrantRepository persists credit-grant audit records. Append-only.
type GrantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) *GrantRepository {
	return &GrantRepository{db: db}
}

func (r *GrantRepository) Create(ctx context.Context, tx *gorm.DB, grant *model.CreditGrant) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(grant).Error
}

func (r *GrantRepository) GetByID(ctx context.Context, id string) (*model.CreditGrant, error) {
	var grant model.CreditGrant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGrantNotFound
		}
		return nil, err
	}
	return &grant, nil
}

func (r *GrantRepository) ListByRecipient(ctx context.Context, recipientID string, page, pageSize int) ([]*model.CreditGrant, int64, error) {
	var grants []*model.CreditGrant
	var total int64

	query := r.db.WithContext(ctx).Model(&model.CreditGrant{}).Where("recipient_id = ?", recipientID)

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&grants).Error

	return grants, total, err
}
