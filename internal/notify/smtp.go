package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"
)

// SMTPConfig holds the submission server and sender credentials.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPTransport submits mail over SMTP with STARTTLS and PLAIN auth.
type SMTPTransport struct {
	cfg SMTPConfig
}

// NewSMTPTransport creates an SMTP transport.
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPTransport{cfg: cfg}
}

// Send delivers msg. Rejected credentials yield ErrAuthentication and every
// other fault ErrDelivery.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))

	dialer := net.Dialer{Timeout: t.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", ErrDelivery, addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(t.cfg.Timeout))
	}

	c, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: greeting: %v", ErrDelivery, err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); !ok {
		return fmt.Errorf("%w: %s does not offer STARTTLS", ErrDelivery, addr)
	}
	if err := c.StartTLS(&tls.Config{ServerName: t.cfg.Host}); err != nil {
		return fmt.Errorf("%w: starttls: %v", ErrDelivery, err)
	}

	if err := c.Auth(smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)); err != nil {
		if isAuthError(err) {
			return fmt.Errorf("%w: %v", ErrAuthentication, err)
		}
		return fmt.Errorf("%w: auth: %v", ErrDelivery, err)
	}

	if err := c.Mail(msg.From); err != nil {
		return fmt.Errorf("%w: mail from: %v", ErrDelivery, err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("%w: rcpt to: %v", ErrDelivery, err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("%w: data: %v", ErrDelivery, err)
	}
	if _, err := w.Write(msg.Bytes()); err != nil {
		w.Close()
		return fmt.Errorf("%w: write body: %v", ErrDelivery, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: end data: %v", ErrDelivery, err)
	}

	// The message is accepted once DATA completes.
	_ = c.Quit()
	return nil
}

// isAuthError reports whether err is an SMTP reply rejecting credentials
// (530, 534 or 535).
func isAuthError(err error) bool {
	var reply *textproto.Error
	if !errors.As(err, &reply) {
		return false
	}
	switch reply.Code {
	case 530, 534, 535:
		return true
	}
	return false
}
