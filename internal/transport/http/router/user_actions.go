package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-inventory-api/internal/core/auth"
	"go-inventory-api/internal/domain"
	"go-inventory-api/internal/service"
	httpez "go-inventory-api/internal/transport/http/ez"
	mdw "go-inventory-api/internal/transport/http/middleware"
)

// userModule /api/users 下的注册/登录/会话/密码重置
type userModule struct {
	svc          *service.AuthService
	jwter        *auth.JWTer
	cookieMaxAge int  // 秒
	secureCookie bool // 生产环境下 Secure + SameSite=None
}

func (m *userModule) Priority() int { return 10 }

func (m *userModule) MountAPI(api *gin.RouterGroup) {
	users := api.Group("/users")
	ezPublic := httpez.New(users)

	type registerIn struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"omitempty,email"`
		Password string `json:"password"`
	}
	httpez.RegisterAction[registerIn, domain.Profile](ezPublic, httpez.Action[registerIn, domain.Profile]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (domain.Profile, error) {
			u, tok, err := m.svc.Register(service.RegisterInput(*in))
			if err != nil {
				return domain.Profile{}, err
			}
			mdw.SetSession(c, tok, m.cookieMaxAge, m.secureCookie)
			return u.Profile(), nil
		},
	})

	type loginIn struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	httpez.RegisterAction[loginIn, domain.Profile](ezPublic, httpez.Action[loginIn, domain.Profile]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (domain.Profile, error) {
			u, tok, err := m.svc.Login(in.Email, in.Password)
			if err != nil {
				return domain.Profile{}, err
			}
			mdw.SetSession(c, tok, m.cookieMaxAge, m.secureCookie)
			return u.Profile(), nil
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ezPublic, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/logout",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			mdw.ClearSession(c, m.secureCookie)
			return gin.H{"message": "Successfully logged out"}, nil
		},
	})

	// 登录态探测：无/坏 cookie 一律 false，不报错
	httpez.RegisterAction[struct{}, bool](ezPublic, httpez.Action[struct{}, bool]{
		Method: http.MethodGet,
		Path:   "/loggedin",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (bool, error) {
			tok, err := c.Cookie(mdw.SessionCookie)
			if err != nil {
				return false, nil
			}
			return m.svc.LoggedIn(tok), nil
		},
	})

	type forgotIn struct {
		Email string `json:"email" binding:"required,email"`
	}
	httpez.RegisterAction[forgotIn, gin.H](ezPublic, httpez.Action[forgotIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/forgotpassword",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *forgotIn) (gin.H, error) {
			if err := m.svc.ForgotPassword(in.Email); err != nil {
				return nil, err
			}
			return gin.H{"success": true, "message": "Reset Email Sent"}, nil
		},
	})

	type resetIn struct {
		Password string `json:"password"`
	}
	httpez.RegisterAction[resetIn, gin.H](ezPublic, httpez.Action[resetIn, gin.H]{
		Method: http.MethodPut,
		Path:   "/resetpassword/:resetToken",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *resetIn) (gin.H, error) {
			if err := m.svc.ResetPassword(c.Param("resetToken"), in.Password); err != nil {
				return nil, err
			}
			return gin.H{"message": "Password reset successful, please login"}, nil
		},
	})

	// 鉴权分组
	authed := users.Group("")
	authed.Use(mdw.Session(m.jwter, ""))
	ezAuth := httpez.New(authed)

	httpez.RegisterAction[struct{}, domain.Profile](ezAuth, httpez.Action[struct{}, domain.Profile]{
		Method: http.MethodGet,
		Path:   "/getuser",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Profile, error) {
			u, err := m.svc.CurrentUser(c.GetString("userId"))
			if err != nil {
				return domain.Profile{}, err
			}
			return u.Profile(), nil
		},
	})

	httpez.RegisterAction[service.ProfileInput, domain.Profile](ezAuth, httpez.Action[service.ProfileInput, domain.Profile]{
		Method: http.MethodPatch,
		Path:   "/updateuser",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.ProfileInput) (domain.Profile, error) {
			u, err := m.svc.UpdateProfile(c.GetString("userId"), *in)
			if err != nil {
				return domain.Profile{}, err
			}
			return u.Profile(), nil
		},
	})

	type pwIn struct {
		OldPassword string `json:"oldPassword"`
		Password    string `json:"password"`
	}
	httpez.RegisterAction[pwIn, gin.H](ezAuth, httpez.Action[pwIn, gin.H]{
		Method: http.MethodPatch,
		Path:   "/updatepassword",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *pwIn) (gin.H, error) {
			if err := m.svc.ChangePassword(c.GetString("userId"), in.OldPassword, in.Password); err != nil {
				return nil, err
			}
			return gin.H{"message": "Password changed successfully"}, nil
		},
	})
}
