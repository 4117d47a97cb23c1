package main

import (
	"bytes"
	"html/template"

	"github.com/go-mail/mail/v2"
)

const welcomeTemplate = `
{{define "subject"}}Welcome to Task Manager{{end}}
{{define "plainBody"}}
Hi {{.Username}},

Thanks for signing up for Task Manager. You can start creating tasks right away.
{{end}}
{{define "htmlBody"}}
<html>
<body>
<p>Hi {{.Username}},</p>
<p>Thanks for signing up for Task Manager. You can start creating tasks right away.</p>
</body>
</html>
{{end}}`

type mailer struct {
	dailer *mail.Dialer
	sender string
	tmpl   *template.Template
}

func newMailer(host string, port int, username string, password string, sender string) *mailer {
	dailer := mail.NewDialer(host, port, username, password)
	return &mailer{
		dailer: dailer,
		sender: sender,
		tmpl:   template.Must(template.New("welcome").Parse(welcomeTemplate)),
	}
}

func (m *mailer) sendWelcome(u *user) error {
	var subject bytes.Buffer
	err := m.tmpl.ExecuteTemplate(&subject, "subject", u)
	if err != nil {
		return err
	}
	var plainBody bytes.Buffer
	err = m.tmpl.ExecuteTemplate(&plainBody, "plainBody", u)
	if err != nil {
		return err
	}
	var htmlBody bytes.Buffer
	err = m.tmpl.ExecuteTemplate(&htmlBody, "htmlBody", u)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", u.Email)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	for i := 0; i < 3; i++ {
		err = m.dailer.DialAndSend(msg)
		if err == nil {
			break
		}
	}
	return err
}
