package router

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-inventory-api/internal/core/auth"
	"go-inventory-api/internal/domain"
	"go-inventory-api/internal/service"
	httpez "go-inventory-api/internal/transport/http/ez"
	mdw "go-inventory-api/internal/transport/http/middleware"
)

// productModule /api/products：全部要求会话，商品体可带单个 image 文件
type productModule struct {
	svc   *service.ProductService
	jwter *auth.JWTer
}

func (m *productModule) Priority() int { return 20 }

func (m *productModule) MountAPI(api *gin.RouterGroup) {
	products := api.Group("/products")
	products.Use(mdw.Session(m.jwter, ""))
	ez := httpez.New(products)

	httpez.RegisterAction[service.ProductInput, *domain.Product](ez, httpez.Action[service.ProductInput, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/",
		Binder: httpez.BindForm,
		Status: http.StatusCreated,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.ProductInput) (*domain.Product, error) {
			return m.svc.Create(c.Request.Context(), c.GetString("userId"), *in, imageFile(c))
		},
	})

	httpez.RegisterAction[struct{}, []domain.Product](ez, httpez.Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Product, error) {
			return m.svc.List(c.Request.Context(), c.GetString("userId"))
		},
	})

	httpez.RegisterAction[struct{}, *domain.Product](ez, httpez.Action[struct{}, *domain.Product]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Product, error) {
			return m.svc.Get(c.Request.Context(), c.GetString("userId"), c.Param("id"))
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := m.svc.Delete(c.Request.Context(), c.GetString("userId"), c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"message": "Product deleted"}, nil
		},
	})

	httpez.RegisterAction[service.ProductInput, *domain.Product](ez, httpez.Action[service.ProductInput, *domain.Product]{
		Method: http.MethodPatch,
		Path:   "/:id",
		Binder: httpez.BindForm,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.ProductInput) (*domain.Product, error) {
			return m.svc.Update(c.Request.Context(), c.GetString("userId"), c.Param("id"), *in, imageFile(c))
		},
	})
}

// imageFile 可选的单个 image 部分，没有就是 nil
func imageFile(c *gin.Context) *multipart.FileHeader {
	f, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return f
}
