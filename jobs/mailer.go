package jobs

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text notification emails over SMTP.
type Mailer struct {
	addr string
	from string
}

// NewMailer constructs a Mailer for the given SMTP host and port.
func NewMailer(host string, port int, from string) *Mailer {
	return &Mailer{addr: fmt.Sprintf("%s:%d", host, port), from: from}
}

// Send delivers one message. The local relay handles authentication and TLS.
func (m *Mailer) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	return smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg))
}
