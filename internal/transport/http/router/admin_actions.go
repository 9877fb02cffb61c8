package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-inventory-api/internal/domain"
	httpez "go-inventory-api/internal/transport/http/ez"
)

// 把管理端接口集中在这里注册
func mountAdminActions(admin *gin.RouterGroup, users domain.UserRepository) {
	ez := httpez.New(admin)

	// --- GET /admin/v1/users  用户列表 ---
	type listQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	type row struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"createdAt"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}

	httpez.RegisterAction[listQ, listOut](ez, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			us, total, err := users.List(in.Offset, in.Limit)
			if err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, row{
					ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	// --- POST /admin/v1/users/:id/ban  封禁（软删） ---
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			u, err := users.FindByID(id)
			if err != nil {
				return nil, httpez.Internal("find user failed", err)
			}
			if u == nil {
				return nil, httpez.NotFound("user not found")
			}
			if err := users.SoftDelete(id); err != nil {
				return nil, httpez.Internal("ban user failed", err)
			}
			return gin.H{"id": id}, nil
		},
	})
}
