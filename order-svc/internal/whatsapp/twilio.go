package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"comanda/order-svc/internal/domain"
)

// TwilioClient sends and receives WhatsApp messages through Twilio.
type TwilioClient struct {
	client *twilio.RestClient
}

func NewTwilioClient(accountSID, authToken string) *TwilioClient {
	return &TwilioClient{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
	}
}

func (t *TwilioClient) Send(to, body, from string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(withChannelPrefix(to))
	params.SetFrom(withChannelPrefix(from))
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("send whatsapp message: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// ProcessIncoming maps a Twilio webhook form into the channel-neutral shape
// the conversation pipeline works with. Phone numbers lose the channel
// prefix so they match what is stored for branches and customers.
func (t *TwilioClient) ProcessIncoming(form url.Values) domain.IncomingMessage {
	return domain.IncomingMessage{
		From:        stripChannelPrefix(form.Get("From")),
		To:          stripChannelPrefix(form.Get("To")),
		Body:        form.Get("Body"),
		ProfileName: form.Get("ProfileName"),
		MessageSID:  form.Get("MessageSid"),
		Timestamp:   time.Now(),
	}
}

func withChannelPrefix(phone string) string {
	if strings.HasPrefix(phone, "whatsapp:") {
		return phone
	}
	return "whatsapp:" + phone
}

func stripChannelPrefix(phone string) string {
	return strings.TrimPrefix(phone, "whatsapp:")
}
