package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender 出站邮件：同步发送，失败即返回错误
type Sender interface {
	Send(subject, htmlBody, to, from string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
}

func NewSMTP(host string, port int, username, password string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, username, password)}
}

func (s *SMTPSender) Send(subject, htmlBody, to, from string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// ResetEmailBody 重置邮件正文，链接 30 分钟内有效
func ResetEmailBody(name, resetURL, appName string) string {
	return fmt.Sprintf(`
        <h2>Hello %s</h2>
        <p>Please use the url below to reset your password.</p>
        <p>This reset link is valid for only 30 minutes.</p>
        <a href=%s clicktracking=off>%s</a>
        <p>Regards</p>
        <p>%s Team</p>
    `, name, resetURL, resetURL, appName)
}
