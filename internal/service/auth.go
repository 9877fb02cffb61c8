package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go-inventory-api/internal/core/auth"
	"go-inventory-api/internal/core/mail"
	"go-inventory-api/internal/domain"
	"go-inventory-api/internal/transport/http/ez"
	"go-inventory-api/pkg/utils"
)

const resetTokenTTL = 30 * time.Minute

type AuthService struct {
	users  domain.UserRepository
	tokens domain.TokenRepository
	mailer mail.Sender
	jwter  *auth.JWTer

	AppName     string
	FrontendURL string
	FromAddr    string
	SupportAddr string
}

func NewAuthService(users domain.UserRepository, tokens domain.TokenRepository, mailer mail.Sender, jwter *auth.JWTer) *AuthService {
	return &AuthService{users: users, tokens: tokens, mailer: mailer, jwter: jwter}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register 新建用户并签发会话令牌
func (s *AuthService) Register(in RegisterInput) (*domain.User, string, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", ez.BadRequest("Please fill in all required fields")
	}
	if len(in.Password) < 8 {
		return nil, "", ez.BadRequest("Password must be at least 8 characters")
	}

	existing, err := s.users.FindByEmail(in.Email)
	if err != nil {
		return nil, "", ez.Internal("db error", err)
	}
	if existing != nil {
		return nil, "", ez.BadRequest("Email has already been registered")
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: utils.HashPassword(in.Password),
		Photo:        domain.DefaultPhoto,
		Phone:        domain.DefaultPhone,
		Bio:          domain.DefaultBio,
		Role:         "user",
	}
	if err := s.users.Create(u); err != nil {
		return nil, "", ez.Internal("create user failed", err)
	}

	tok, err := s.jwter.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", ez.Internal("issue token failed", err)
	}
	return u, tok, nil
}

func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ez.BadRequest("Please add email and password")
	}
	u, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, "", ez.Internal("db error", err)
	}
	if u == nil {
		return nil, "", ez.NotFound("User not found, please signup")
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, "", ez.Unauthorized("Invalid email or password")
	}
	tok, err := s.jwter.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", ez.Internal("issue token failed", err)
	}
	return u, tok, nil
}

func (s *AuthService) CurrentUser(uid string) (*domain.User, error) {
	u, err := s.users.FindByID(uid)
	if err != nil {
		return nil, ez.Internal("db error", err)
	}
	if u == nil {
		return nil, ez.NotFound("User not found")
	}
	return u, nil
}

// LoggedIn 会话探测：无 cookie 或校验失败都只是 false
func (s *AuthService) LoggedIn(token string) bool {
	return s.jwter.Verify(token)
}

type ProfileInput struct {
	Name  string `json:"name"`
	Photo string `json:"photo"`
	Phone string `json:"phone"`
	Bio   string `json:"bio" binding:"omitempty,max=500"`
}

// UpdateProfile 部分更新：空字段保留原值，email 不可改
func (s *AuthService) UpdateProfile(uid string, in ProfileInput) (*domain.User, error) {
	u, err := s.CurrentUser(uid)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Photo != "" {
		u.Photo = in.Photo
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if in.Bio != "" {
		u.Bio = in.Bio
	}
	if err := s.users.Update(u); err != nil {
		return nil, ez.Internal("update user failed", err)
	}
	return u, nil
}

func (s *AuthService) ChangePassword(uid, oldPassword, newPassword string) error {
	u, err := s.CurrentUser(uid)
	if err != nil {
		return err
	}
	if oldPassword == "" || newPassword == "" {
		return ez.BadRequest("Please add old and new password")
	}
	if !utils.CheckPassword(oldPassword, u.PasswordHash) {
		return ez.Unauthorized("Old password is incorrect")
	}
	u.PasswordHash = utils.HashPassword(newPassword)
	if err := s.users.Update(u); err != nil {
		return ez.Internal("update password failed", err)
	}
	return nil
}

// ForgotPassword 生成一次性重置令牌并发送邮件。
// 库里只存 sha256 散列；裸令牌只出现在发出的链接里。
func (s *AuthService) ForgotPassword(email string) error {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		return ez.Internal("db error", err)
	}
	if u == nil {
		return ez.NotFound("User does not exist")
	}

	// 每用户至多一个在世令牌
	if err := s.tokens.DeleteByUserID(u.ID); err != nil {
		return ez.Internal("delete old token failed", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return ez.Internal("generate token failed", err)
	}
	secret := hex.EncodeToString(raw) + u.ID

	now := time.Now()
	t := &domain.ResetToken{
		ID:        utils.NewID(),
		UserID:    u.ID,
		TokenHash: hashToken(secret),
		CreatedAt: now,
		ExpiresAt: now.Add(resetTokenTTL),
	}
	if err := s.tokens.Create(t); err != nil {
		return ez.Internal("save token failed", err)
	}

	resetURL := s.FrontendURL + "/resetpassword/" + secret
	body := mail.ResetEmailBody(u.Name, resetURL, s.AppName)
	if err := s.mailer.Send("Password Reset Request", body, u.Email, s.FromAddr); err != nil {
		return ez.Internal("Email not sent, please try again", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < 8 {
		return ez.BadRequest("Password must be at least 8 characters")
	}
	t, err := s.tokens.FindByHash(hashToken(token), time.Now())
	if err != nil {
		return ez.Internal("db error", err)
	}
	if t == nil {
		return ez.NotFound("Invalid or expired token")
	}
	u, err := s.users.FindByID(t.UserID)
	if err != nil {
		return ez.Internal("db error", err)
	}
	if u == nil {
		return ez.NotFound("User not found")
	}
	u.PasswordHash = utils.HashPassword(newPassword)
	if err := s.users.Update(u); err != nil {
		return ez.Internal("update password failed", err)
	}
	// 一次性：成功即作废
	if err := s.tokens.Delete(t.ID); err != nil {
		return ez.Internal("consume token failed", err)
	}
	return nil
}

// Contact 登录用户给支持邮箱发消息
func (s *AuthService) Contact(uid, subject, message string) error {
	u, err := s.CurrentUser(uid)
	if err != nil {
		return err
	}
	if subject == "" || message == "" {
		return ez.BadRequest("Please add subject and message")
	}
	body := "<p>" + message + "</p><p>From: " + u.Email + "</p>"
	if err := s.mailer.Send(subject, body, s.SupportAddr, s.FromAddr); err != nil {
		return ez.Internal("Email not sent, please try again", err)
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
