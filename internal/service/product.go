package service

import (
	"context"
	"mime/multipart"
	"time"

	"go-inventory-api/internal/core/cache"
	"go-inventory-api/internal/core/upload"
	"go-inventory-api/internal/domain"
	"go-inventory-api/internal/transport/http/ez"
	"go-inventory-api/pkg/utils"
)

const listCacheTTL = 30 * time.Second

type ProductService struct {
	products domain.ProductRepository
	uploader upload.Uploader
	cache    *cache.Cache // 可为 nil（关缓存跑）
}

func NewProductService(products domain.ProductRepository, uploader upload.Uploader, c *cache.Cache) *ProductService {
	return &ProductService{products: products, uploader: uploader, cache: c}
}

type ProductInput struct {
	Name        string `form:"name" json:"name"`
	SKU         string `form:"sku" json:"sku"`
	Category    string `form:"category" json:"category"`
	Quantity    string `form:"quantity" json:"quantity"`
	Price       string `form:"price" json:"price"`
	Description string `form:"description" json:"description"`
}

func (s *ProductService) Create(ctx context.Context, ownerID string, in ProductInput, file *multipart.FileHeader) (*domain.Product, error) {
	if in.Name == "" || in.SKU == "" || in.Category == "" || in.Quantity == "" || in.Price == "" || in.Description == "" {
		return nil, ez.BadRequest("Please fill in all fields")
	}

	var img domain.ProductImage
	if file != nil {
		var err error
		img, err = s.uploadImage(ctx, file)
		if err != nil {
			return nil, ez.Internal("Image could not be uploaded", err)
		}
	}

	p := &domain.Product{
		ID:          utils.NewID(),
		UserID:      ownerID,
		Name:        in.Name,
		SKU:         in.SKU,
		Category:    in.Category,
		Quantity:    in.Quantity,
		Price:       in.Price,
		Description: in.Description,
		Image:       img,
	}
	if err := s.products.Create(p); err != nil {
		return nil, ez.Internal("create product failed", err)
	}
	s.invalidate(ctx, ownerID)
	return p, nil
}

// List 按创建时间倒序，读穿 redis 缓存
func (s *ProductService) List(ctx context.Context, ownerID string) ([]domain.Product, error) {
	if s.cache == nil {
		ps, err := s.products.ListByUser(ownerID)
		if err != nil {
			return nil, ez.Internal("list products failed", err)
		}
		return ps, nil
	}
	ps, err := cache.GetOrLoadJSON(s.cache, ctx, listKey(ownerID), listCacheTTL,
		func(ctx context.Context) ([]domain.Product, error) {
			return s.products.ListByUser(ownerID)
		})
	if err != nil {
		return nil, ez.Internal("list products failed", err)
	}
	return ps, nil
}

func (s *ProductService) Get(ctx context.Context, ownerID, id string) (*domain.Product, error) {
	return s.authorized(ownerID, id)
}

func (s *ProductService) Delete(ctx context.Context, ownerID, id string) error {
	p, err := s.authorized(ownerID, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(p.ID); err != nil {
		return ez.Internal("delete product failed", err)
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// Update 部分更新：空字段保留原值；无新图则原图纹丝不动
func (s *ProductService) Update(ctx context.Context, ownerID, id string, in ProductInput, file *multipart.FileHeader) (*domain.Product, error) {
	p, err := s.authorized(ownerID, id)
	if err != nil {
		return nil, err
	}

	if file != nil {
		img, err := s.uploadImage(ctx, file)
		if err != nil {
			return nil, ez.Internal("Image could not be uploaded", err)
		}
		p.Image = img
	}

	if in.Name != "" {
		p.Name = in.Name
	}
	if in.SKU != "" {
		p.SKU = in.SKU
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.Quantity != "" {
		p.Quantity = in.Quantity
	}
	if in.Price != "" {
		p.Price = in.Price
	}
	if in.Description != "" {
		p.Description = in.Description
	}

	if err := s.products.Update(p); err != nil {
		return nil, ez.Internal("update product failed", err)
	}
	s.invalidate(ctx, ownerID)
	return p, nil
}

// authorized 查找 + 归属校验：非本人一律 401
func (s *ProductService) authorized(ownerID, id string) (*domain.Product, error) {
	p, err := s.products.FindByID(id)
	if err != nil {
		return nil, ez.Internal("db error", err)
	}
	if p == nil {
		return nil, ez.NotFound("Product not found")
	}
	if p.UserID != ownerID {
		return nil, ez.Unauthorized("User not authorized")
	}
	return p, nil
}

func (s *ProductService) uploadImage(ctx context.Context, file *multipart.FileHeader) (domain.ProductImage, error) {
	f, err := file.Open()
	if err != nil {
		return domain.ProductImage{}, err
	}
	defer f.Close()

	url, err := s.uploader.Upload(ctx, f, file.Filename)
	if err != nil {
		return domain.ProductImage{}, err
	}
	return domain.ProductImage{
		FileName: file.Filename,
		FilePath: url,
		FileType: file.Header.Get("Content-Type"),
		FileSize: utils.FileSizeFormatter(file.Size, 2),
	}, nil
}

func (s *ProductService) invalidate(ctx context.Context, ownerID string) {
	if s.cache != nil {
		s.cache.Del(ctx, listKey(ownerID))
	}
}

func listKey(ownerID string) string { return "products:user:" + ownerID }
