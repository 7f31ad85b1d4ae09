package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeTransport struct {
	sent []Message
	err  error
}

func (f *fakeTransport) Send(_ context.Context, msg Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestNotify_SendsOnceAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_emails.txt")
	transport := &fakeTransport{}

	first := NewNotifier(transport, NewLedger(path), "hr@example.com", zap.NewNop())
	require.NoError(t, first.Notify(context.Background(), "jane@example.com", "Jane Doe"))

	second := NewNotifier(transport, NewLedger(path), "hr@example.com", zap.NewNop())
	require.NoError(t, second.Notify(context.Background(), "jane@example.com", "Jane Doe"))

	require.Len(t, transport.sent, 1)
	msg := transport.sent[0]
	assert.Equal(t, "hr@example.com", msg.From)
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "Application Update", msg.Subject)
	assert.Equal(t, "Hi Jane Doe, thanks for applying! Based on our initial screening, "+
		"we'd like to move forward with your application.", msg.Body)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com\n", string(data))
}

func TestNotify_NoCredentials(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	path := filepath.Join(t.TempDir(), "sent_emails.txt")
	n := NewNotifier(nil, NewLedger(path), "", zap.New(core))

	require.NoError(t, n.Notify(context.Background(), "jane@example.com", "Jane Doe"))

	assert.False(t, n.Enabled())
	assert.Equal(t, 1, logs.FilterMessage("missing email credentials, skipping email").Len())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNotify_FailureNotRecorded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_emails.txt")
	failing := &fakeTransport{err: ErrAuthentication}
	n := NewNotifier(failing, NewLedger(path), "hr@example.com", zap.NewNop())

	err := n.Notify(context.Background(), "jane@example.com", "Jane Doe")
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.ErrorIs(t, err, ErrDelivery)

	working := &fakeTransport{}
	n = NewNotifier(working, NewLedger(path), "hr@example.com", zap.NewNop())
	require.NoError(t, n.Notify(context.Background(), "jane@example.com", "Jane Doe"))
	assert.Len(t, working.sent, 1)
}

func TestNotify_RejectsMalformedAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
	}{
		{name: "header injection", address: "jane@example.com\r\nBcc: everyone@example.org"},
		{name: "bare newline", address: "jane@example.com\nSubject: hi"},
		{name: "not an address", address: "Jane Doe"},
		{name: "empty", address: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			path := filepath.Join(t.TempDir(), "sent_emails.txt")
			transport := &fakeTransport{}
			n := NewNotifier(transport, NewLedger(path), "hr@example.com", zap.New(core))

			err := n.Notify(context.Background(), tt.address, "Jane Doe")

			assert.ErrorIs(t, err, ErrDelivery)
			assert.Empty(t, transport.sent)
			assert.Equal(t, 1, logs.FilterMessage("invalid recipient address, skipping email").Len())
			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestNotify_LedgerUsesExactAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_emails.txt")
	transport := &fakeTransport{}
	n := NewNotifier(transport, NewLedger(path), "hr@example.com", zap.NewNop())

	require.NoError(t, n.Notify(context.Background(), " jane@example.com", "Jane Doe"))

	require.Len(t, transport.sent, 1)
	assert.Equal(t, " jane@example.com", transport.sent[0].To)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, " jane@example.com\n", string(data))
}

func TestLedger_SubstringMatch(t *testing.T) {
	ledger := NewLedger(filepath.Join(t.TempDir(), "nested", "sent.txt"))

	found, err := ledger.Contains("jane@example.com")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, ledger.Record("mary.jane@example.com"))

	for address, want := range map[string]bool{
		"mary.jane@example.com": true,
		"jane@example.com":      true,
		"Jane@example.com":      false,
		"john@example.com":      false,
	} {
		found, err := ledger.Contains(address)
		require.NoError(t, err)
		assert.Equal(t, want, found, address)
	}
}

func TestLedger_ReadError(t *testing.T) {
	dir := t.TempDir()
	ledger := NewLedger(dir)

	_, err := ledger.Contains("jane@example.com")
	assert.Error(t, err)

	transport := &fakeTransport{}
	n := NewNotifier(transport, ledger, "hr@example.com", nil)
	assert.Error(t, n.Notify(context.Background(), "jane@example.com", "Jane"))
	assert.Empty(t, transport.sent)
}

func TestMessageBytes(t *testing.T) {
	raw := string(Compose("hr@example.com", "jane@example.com", "Jane").Bytes())

	assert.Contains(t, raw, "From: hr@example.com\r\n")
	assert.Contains(t, raw, "To: jane@example.com\r\n")
	assert.Contains(t, raw, "Subject: Application Update\r\n")
	assert.Contains(t, raw, "\r\n\r\nHi Jane, thanks for applying!")
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, isAuthError(&textprotoError535))
	assert.False(t, isAuthError(errors.New("connection reset")))
}
