// Package email sends templated transactional mail over SMTP.
package email

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"text/template"
	"time"

	"github.com/bwise1/travel_planner_api/util"
	"github.com/go-mail/mail/v2"
	"github.com/pkg/errors"
)

//go:embed templates
var templateFS embed.FS

type Mailer struct {
	dialer *mail.Dialer
	sender string
}

func NewMailer(host string, port int, username, password, sender string) *Mailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 10 * time.Second
	return &Mailer{dialer: dialer, sender: sender}
}

// Send renders templateFile (subject, plainBody and htmlBody blocks) with
// data and delivers it to recipient.
func (m *Mailer) Send(recipient string, data interface{}, templateFile string) error {
	if err := util.ValidEmail(recipient); err != nil {
		return errors.Wrapf(err, "invalid recipient %q", recipient)
	}
	msg, err := m.render(recipient, data, templateFile)
	if err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return errors.Wrapf(err, "send %s to %s", templateFile, recipient)
	}
	return nil
}

func (m *Mailer) render(recipient string, data interface{}, templateFile string) (*mail.Message, error) {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return nil, errors.Wrapf(err, "parse template %s", templateFile)
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return nil, errors.Wrap(err, "render subject")
	}
	plainBody := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(plainBody, "plainBody", data); err != nil {
		return nil, errors.Wrap(err, "render plain body")
	}

	htmlTmpl, err := htmltemplate.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return nil, errors.Wrapf(err, "parse html template %s", templateFile)
	}
	htmlBody := new(bytes.Buffer)
	if err := htmlTmpl.ExecuteTemplate(htmlBody, "htmlBody", data); err != nil {
		return nil, errors.Wrap(err, "render html body")
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())
	return msg, nil
}
