package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sender delivers transactional mail over SMTP. It implements
// account.Notifier.
type Sender struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
	tmpl    *template.Template
}

func NewSender(host string, port int, username, password, from, baseURL string) (*Sender, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Sender{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		baseURL: baseURL,
		tmpl:    tmpl,
	}, nil
}

// SendSignUpConfirmation mails the verification link for a freshly created
// account.
func (s *Sender) SendSignUpConfirmation(to, nickname, token string) error {
	link := fmt.Sprintf("%s/check-email-token?token=%s&email=%s",
		s.baseURL, url.QueryEscape(token), url.QueryEscape(to))

	body, err := s.render("verification_email.html", map[string]string{
		"Nickname": nickname,
		"Link":     link,
	})
	if err != nil {
		return err
	}
	return s.send(to, "StudyHub sign-up verification", body)
}

func (s *Sender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return s.dialer.DialAndSend(m)
}

func (s *Sender) render(name string, data any) (string, error) {
	buf := new(bytes.Buffer)
	if err := s.tmpl.ExecuteTemplate(buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
