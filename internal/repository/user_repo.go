package repository

import (
	"context"
	"errors"
	"strings"

	"fitledger/internal/model"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("usuário não encontrado")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.EmailNormalized == "" {
		user.EmailNormalized = NormalizeEmail(user.Email)
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail resolves a user case-insensitively through the
// email_normalized unique index, not by lower-casing a scan.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email_normalized = ?", NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ListAssociations(ctx context.Context, userID string) ([]*model.FranchiseAssociation, error) {
	var associations []*model.FranchiseAssociation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&associations).Error
	return associations, err
}

func (r *UserRepository) CreateAssociation(ctx context.Context, assoc *model.FranchiseAssociation) error {
	return r.db.WithContext(ctx).Create(assoc).Error
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
