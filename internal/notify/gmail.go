package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"google.golang.org/api/gmail/v1"

	"github.com/fmuoria/ai-recruiter/internal/google"
)

// GmailTransport sends mail through the Gmail API as the authenticated user.
type GmailTransport struct {
	svc *gmail.Service
}

// NewGmailTransport wraps a Gmail service authorised for the sender.
func NewGmailTransport(svc *gmail.Service) *GmailTransport {
	return &GmailTransport{svc: svc}
}

// Send delivers msg. Unauthorised or forbidden replies yield
// ErrAuthentication.
func (t *GmailTransport) Send(ctx context.Context, msg Message) error {
	raw := base64.URLEncoding.EncodeToString(msg.Bytes())

	_, err := t.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err == nil {
		return nil
	}

	err = google.WrapError(err)
	if errors.Is(err, google.ErrUnauthorized) || errors.Is(err, google.ErrForbidden) {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	return fmt.Errorf("%w: %v", ErrDelivery, err)
}
