package domain

import "time"

// ResetToken 密码重置令牌：只存 sha256 散列，30 分钟后过期
type ResetToken struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36" json:"userId"`
	TokenHash string    `gorm:"uniqueIndex;size:64" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (ResetToken) TableName() string { return "reset_tokens" }

func (t *ResetToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }

type TokenRepository interface {
	Create(t *ResetToken) error
	// FindByHash 只返回未过期的令牌，查不到返回 (nil, nil)
	FindByHash(hash string, now time.Time) (*ResetToken, error)
	DeleteByUserID(userID string) error
	Delete(id string) error
}
