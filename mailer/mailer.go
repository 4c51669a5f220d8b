// Package mailer sends transactional order mail through SendGrid.
package mailer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/nittanycraft/storefront/common"
)

var ErrNotConfigured = errors.New("mail delivery is not configured")

const (
	sendGridBaseURL      = "https://api.sendgrid.com"
	sendGridMailSendPath = "/v3/mail/send"

	defaultFromName = "NITTANY CRAFT"
)

// Attachment is a file attached to an outgoing message. Content holds the
// raw bytes, not base64.
type Attachment struct {
	Filename string
	Content  []byte
	MimeType string
}

type Message struct {
	To          string
	ToName      string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// SendGridSender delivers messages through the SendGrid v3 mail API.
// Credentials are read from the environment when the sender is built and
// reported through Configured so callers can decide how to degrade.
type SendGridSender struct {
	apiKey      string
	fromName    string
	fromAddress string
}

func NewSendGridSender() *SendGridSender {
	return &SendGridSender{
		apiKey:      common.GetEnv("SENDGRID_API_KEY", ""),
		fromName:    common.GetEnv("MAIL_FROM_NAME", defaultFromName),
		fromAddress: common.GetEnv("MAIL_FROM_ADDRESS", ""),
	}
}

func (s *SendGridSender) Configured() bool {
	return s.apiKey != "" && s.fromAddress != ""
}

func (s *SendGridSender) Send(ctx context.Context, msg *Message) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(s.fromName, s.fromAddress))

	enable := false
	m.SetTrackingSettings(&mail.TrackingSettings{SubscriptionTracking: &mail.SubscriptionTrackingSetting{Enable: &enable}})

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail(msg.ToName, msg.To))
	personalization.Subject = msg.Subject
	m.AddPersonalizations(personalization)

	m.AddContent(mail.NewContent("text/html", msg.HTML))

	for _, attachment := range msg.Attachments {
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(attachment.Content))
		a.SetType(attachment.MimeType)
		a.SetFilename(attachment.Filename)
		a.SetDisposition("attachment")
		m.AddAttachment(a)
	}

	request := sendgrid.GetRequest(s.apiKey, sendGridMailSendPath, sendGridBaseURL)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(m)

	response, err := sendgrid.MakeRequestRetryWithContext(ctx, request)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid responded with status %d: %s", response.StatusCode, response.Body)
	}

	return nil
}
