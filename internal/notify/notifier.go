// Package notify sends the one-time screening email to qualifying candidates.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/fmuoria/ai-recruiter/internal/logger"
)

// Delivery failures. ErrAuthentication wraps ErrDelivery.
var (
	ErrDelivery       = errors.New("email delivery failed")
	ErrAuthentication = fmt.Errorf("%w: authentication rejected", ErrDelivery)
)

// Transport delivers a composed message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier emails each address at most once over the lifetime of its ledger.
type Notifier struct {
	transport Transport
	ledger    *Ledger
	from      string
	logger    *zap.Logger
}

// NewNotifier creates a notifier. A nil transport means sender credentials
// are not configured and every Notify is skipped with a warning.
func NewNotifier(transport Transport, ledger *Ledger, from string, log *zap.Logger) *Notifier {
	return &Notifier{
		transport: transport,
		ledger:    ledger,
		from:      from,
		logger:    logger.WithFields(log),
	}
}

// Enabled reports whether a transport is configured.
func (n *Notifier) Enabled() bool {
	return n.transport != nil
}

// Notify sends the screening email to address unless it is already in the
// ledger. It returns nil when the email was sent or deliberately skipped.
func (n *Notifier) Notify(ctx context.Context, address, name string) error {
	log := n.logger.With(logger.Candidate(name, address)...)

	if n.transport == nil {
		log.Warn("missing email credentials, skipping email")
		return nil
	}

	if err := validateAddress(address); err != nil {
		log.Error("invalid recipient address, skipping email", zap.Error(err))
		return err
	}

	sent, err := n.ledger.Contains(address)
	if err != nil {
		log.Error("cannot check sent-email ledger, skipping email", zap.Error(err))
		return err
	}
	if sent {
		log.Info("email already sent, skipping")
		return nil
	}

	if err := n.transport.Send(ctx, Compose(n.from, address, name)); err != nil {
		if errors.Is(err, ErrAuthentication) {
			log.Error("email authentication failed, check credentials", zap.Error(err))
		} else {
			log.Error("email delivery failed", zap.Error(err))
		}
		return err
	}

	if err := n.ledger.Record(address); err != nil {
		log.Warn("email sent but not recorded in ledger", zap.Error(err))
		return nil
	}

	log.Info("email sent")
	return nil
}

// validateAddress rejects recipients that would not survive as a single
// header line. The address is used verbatim for the ledger check.
func validateAddress(address string) error {
	if strings.ContainsAny(address, "\r\n") {
		return fmt.Errorf("%w: recipient address contains a line break", ErrDelivery)
	}
	if _, err := mail.ParseAddress(address); err != nil {
		return fmt.Errorf("%w: invalid recipient address %q: %v", ErrDelivery, address, err)
	}
	return nil
}
