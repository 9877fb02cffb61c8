package domain

import "time"

// ProductImage 媒体托管返回的元数据，整体随商品存储
type ProductImage struct {
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"` // 托管 URL
	FileType string `json:"fileType"`
	FileSize string `json:"fileSize"` // 已格式化，如 "12.40 KB"
}

func (i ProductImage) Empty() bool { return i == ProductImage{} }

type Product struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	UserID      string       `gorm:"index;size:36" json:"user"`
	Name        string       `gorm:"size:191" json:"name"`
	SKU         string       `gorm:"size:64" json:"sku"`
	Category    string       `gorm:"size:64" json:"category"`
	Quantity    string       `gorm:"size:32" json:"quantity"`
	Price       string       `gorm:"size:32" json:"price"`
	Description string       `gorm:"type:text" json:"description"`
	Image       ProductImage `gorm:"embedded;embeddedPrefix:image_" json:"image"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

type ProductRepository interface {
	Create(p *Product) error
	FindByID(id string) (*Product, error)
	// ListByUser 按创建时间倒序
	ListByUser(userID string) ([]Product, error)
	Update(p *Product) error
	Delete(id string) error
}
