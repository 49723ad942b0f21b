package mail

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"
)

const resetSubject = "Passwort zurücksetzen - Arbeitsstunden"

var resetHTML = htmltemplate.Must(htmltemplate.New("reset.html").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Passwort zurücksetzen</h2>
  <p>Sie haben eine Passwort-Zurücksetzung für Ihr Konto angefordert.</p>
  <p>Klicken Sie auf die Schaltfläche unten, um Ihr Passwort zurückzusetzen:</p>
  <a href="{{.URL}}" style="background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block; margin: 16px 0;">Passwort zurücksetzen</a>
  <p>Oder kopieren Sie diese URL und fügen Sie sie in Ihren Browser ein:</p>
  <p style="word-break: break-all; color: #666;">{{.URL}}</p>
  <p style="color: #666; font-size: 14px;">Dieser Link läuft in {{.Hours}} Stunden ab.</p>
  <p style="color: #666; font-size: 14px;">Falls Sie diese Anfrage nicht gestellt haben, ignorieren Sie diese E-Mail bitte.</p>
</div>`))

var resetText = texttemplate.Must(texttemplate.New("reset.txt").Parse(`Passwort zurücksetzen

Sie haben eine Passwort-Zurücksetzung für Ihr Konto angefordert.

Klicken Sie auf diesen Link, um Ihr Passwort zurückzusetzen: {{.URL}}

Dieser Link läuft in {{.Hours}} Stunden ab.

Falls Sie diese Anfrage nicht gestellt haben, ignorieren Sie diese E-Mail bitte.
`))

// Mailer renders and sends the reset mail.
type Mailer struct {
	sender   Sender
	frontend string
	ttl      time.Duration
}

func NewMailer(sender Sender, frontendURL string, ttl time.Duration) *Mailer {
	return &Mailer{sender: sender, frontend: strings.TrimRight(frontendURL, "/"), ttl: ttl}
}

// ResetURL is the frontend page that accepts the token.
func (m *Mailer) ResetURL(token, userID string) string {
	q := url.Values{"token": {token}, "id": {userID}}
	return m.frontend + "/resetPassword?" + q.Encode()
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, token, userID string) error {
	msg, err := m.resetMessage(to, m.ResetURL(token, userID))
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, msg)
}

func (m *Mailer) resetMessage(to, link string) (Message, error) {
	data := struct {
		URL   string
		Hours int
	}{URL: link, Hours: int(m.ttl.Hours())}

	var html, text bytes.Buffer
	if err := resetHTML.Execute(&html, data); err != nil {
		return Message{}, err
	}
	if err := resetText.Execute(&text, data); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: resetSubject, HTML: html.String(), Text: text.String()}, nil
}
