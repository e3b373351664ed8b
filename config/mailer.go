package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"strings"

	mail "github.com/go-mail/mail/v2"
)

type smtpSettings struct {
	host          string
	port          int
	user          string
	pass          string
	from          string // e.g. "Research Registry <no-reply@school.edu>"
	skipTLSVerify bool
}

// loadSMTP reads the environment on each call; .env is loaded after package init.
func loadSMTP() smtpSettings {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return smtpSettings{
		host:          os.Getenv("SMTP_HOST"),
		port:          port,
		user:          os.Getenv("SMTP_USER"),
		pass:          os.Getenv("SMTP_PASS"),
		from:          os.Getenv("SMTP_FROM"),
		skipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
}

// MailConfigured reports whether SMTP settings are present.
func MailConfigured() bool {
	s := loadSMTP()
	return s.host != "" && s.from != ""
}

// OpsAlertRecipients returns the comma separated OPS_ALERT_EMAILS list.
func OpsAlertRecipients() []string {
	var out []string
	for _, addr := range strings.Split(os.Getenv("OPS_ALERT_EMAILS"), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	s := loadSMTP()
	if s.host == "" || s.from == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(s.host, s.port, s.user, s.pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         s.host,
		InsecureSkipVerify: s.skipTLSVerify,
	}

	return d.DialAndSend(m)
}
