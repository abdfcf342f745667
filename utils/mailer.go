package utils

import (
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/clwei/goblog/config"
)

// SendMail sends a plain text email using SMTP settings from config.
func SendMail(to, subject, body string) error {
	cfg := config.Get()
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		return fmt.Errorf("smtp not configured")
	}
	addr := net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort))
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)

	fromName := cfg.SMTPFromName
	if fromName == "" {
		fromName = cfg.SiteTitle
	}
	fromHeader := fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", fromName), cfg.SMTPFrom)

	headers := map[string]string{
		"From":         fromHeader,
		"To":           to,
		"Subject":      mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=UTF-8",
	}
	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	// STARTTLS with timeouts
	d := net.Dialer{Timeout: 5 * time.Second}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))
	host, _, _ := net.SplitHostPort(addr)
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if cfg.SMTPUsername != "" {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(cfg.SMTPFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write([]byte(msg.String())); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

// NotifyNewComment emails the post owner about a new comment. Best-effort:
// it does nothing when SMTP is unconfigured and only logs delivery failures.
func NotifyNewComment(ownerEmail, ownerName, postTitle, commenterName, content string) {
	if config.Get().SMTPHost == "" || ownerEmail == "" {
		return
	}
	go func() {
		subject := fmt.Sprintf("New comment on %q", postTitle)
		body := fmt.Sprintf("Hi %s,\n\n%s commented on your post %q:\n\n%s\n",
			ownerName, commenterName, postTitle, content)
		if err := SendMail(ownerEmail, subject, body); err != nil {
			Sugar.Warnf("comment notification to %s failed: %v", ownerEmail, err)
		}
	}()
}
