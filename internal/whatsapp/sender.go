// Package whatsapp sends outbound messages through the Twilio API and
// renders TwiML webhook replies.
package whatsapp

import (
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrMissingCredentials = errors.New("twilio credentials missing")

// Sender delivers WhatsApp messages via the Twilio REST API.
type Sender struct {
	client *twilio.RestClient
	from   string
}

func NewSender(accountSID, authToken, from string) *Sender {
	if accountSID == "" || authToken == "" {
		return &Sender{from: from}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Sender{client: client, from: from}
}

// Send posts the message and returns the Twilio message SID.
func (s *Sender) Send(to, body string) (string, error) {
	if s.client == nil {
		return "", ErrMissingCredentials
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio send failed: %w", err)
	}

	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	return sid, nil
}
