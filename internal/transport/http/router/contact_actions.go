package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-inventory-api/internal/core/auth"
	"go-inventory-api/internal/service"
	httpez "go-inventory-api/internal/transport/http/ez"
	mdw "go-inventory-api/internal/transport/http/middleware"
)

// contactModule /api/contactus：登录用户给支持邮箱发消息
type contactModule struct {
	svc   *service.AuthService
	jwter *auth.JWTer
}

func (m *contactModule) MountAPI(api *gin.RouterGroup) {
	contact := api.Group("/contactus")
	contact.Use(mdw.Session(m.jwter, ""))
	ez := httpez.New(contact)

	type contactIn struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	httpez.RegisterAction[contactIn, gin.H](ez, httpez.Action[contactIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *contactIn) (gin.H, error) {
			if err := m.svc.Contact(c.GetString("userId"), in.Subject, in.Message); err != nil {
				return nil, err
			}
			return gin.H{"success": true, "message": "Email Sent"}, nil
		},
	})
}
