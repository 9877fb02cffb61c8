package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"go-inventory-api/internal/domain"
)

type TokenRepo struct{ db *gorm.DB }

func NewTokenRepo(db *gorm.DB) *TokenRepo { return &TokenRepo{db: db} }

func (r *TokenRepo) Create(t *domain.ResetToken) error { return r.db.Create(t).Error }

func (r *TokenRepo) FindByHash(hash string, now time.Time) (*domain.ResetToken, error) {
	var t domain.ResetToken
	err := r.db.First(&t, "token_hash = ? AND expires_at > ?", hash, now).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *TokenRepo) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.ResetToken{}).Error
}

func (r *TokenRepo) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.ResetToken{}).Error
}
