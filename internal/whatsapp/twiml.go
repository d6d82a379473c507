package whatsapp

import "github.com/twilio/twilio-go/twiml"

// ReplyTwiML renders a single-message TwiML response for a webhook.
func ReplyTwiML(body string) (string, error) {
	message := &twiml.MessagingMessage{Body: body}
	return twiml.Messages([]twiml.Element{message})
}
