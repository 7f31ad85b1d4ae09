package notify

import (
	"bytes"
	"fmt"
	"mime"
	"time"
)

// Subject of the screening notification.
const Subject = "Application Update"

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Compose builds the notification for a candidate who passed screening.
func Compose(from, to, name string) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: Subject,
		Body: fmt.Sprintf("Hi %s, thanks for applying! Based on our initial screening, "+
			"we'd like to move forward with your application.", name),
	}
}

// Bytes renders the message in RFC 5322 form.
func (m Message) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", m.From)
	fmt.Fprintf(&buf, "To: %s\r\n", m.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(m.Body)
	buf.WriteString("\r\n")
	return buf.Bytes()
}
