// Package google builds authenticated Google Workspace API clients from a
// service-account key and classifies their errors.
package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Credentials holds a service-account JSON key.
type Credentials struct {
	json []byte
}

// LoadCredentials reads a service-account key file.
func LoadCredentials(path string) (*Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}
	return &Credentials{json: b}, nil
}

// TokenSource returns a token source for the given scopes. When subject is
// set the service account impersonates that user (domain-wide delegation).
func (c *Credentials) TokenSource(ctx context.Context, subject string, scopes ...string) (oauth2.TokenSource, error) {
	cfg, err := googleoauth.JWTConfigFromJSON(c.json, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}
	cfg.Subject = subject
	return cfg.TokenSource(ctx), nil
}

// NewSheetsService creates a Sheets API service with read/write access.
func NewSheetsService(ctx context.Context, creds *Credentials, opts ...option.ClientOption) (*sheets.Service, error) {
	ts, err := creds.TokenSource(ctx, "", sheets.SpreadsheetsScope)
	if err != nil {
		return nil, err
	}
	srv, err := sheets.NewService(ctx, append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}
	return srv, nil
}

// NewDriveService creates a read-only Drive API service.
func NewDriveService(ctx context.Context, creds *Credentials, opts ...option.ClientOption) (*drive.Service, error) {
	ts, err := creds.TokenSource(ctx, "", drive.DriveReadonlyScope)
	if err != nil {
		return nil, err
	}
	srv, err := drive.NewService(ctx, append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive client: %w", err)
	}
	return srv, nil
}

// NewGmailService creates a Gmail API service able to send as sender.
func NewGmailService(ctx context.Context, creds *Credentials, sender string, opts ...option.ClientOption) (*gmail.Service, error) {
	ts, err := creds.TokenSource(ctx, sender, gmail.GmailSendScope)
	if err != nil {
		return nil, err
	}
	srv, err := gmail.NewService(ctx, append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}
	return srv, nil
}
