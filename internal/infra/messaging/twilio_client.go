// internal/infra/messaging/twilio_client.go
package messaging

import (
	"context"
	"errors"
	"strings"

	domainMessaging "vet_reminder_service/internal/domain/messaging"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// channelTag is the address prefix for the WhatsApp channel.
const channelTag = "whatsapp:"

// TwilioAdapter implements the messaging.Client interface using the Twilio
// REST API over the WhatsApp channel.
type TwilioAdapter struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioAdapter(accountSID, authToken, fromNumber string) *TwilioAdapter {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioAdapter{
		client: client,
		from:   tagAddress(fromNumber),
	}
}

// Send delivers one message to the given phone number. Twilio failures are
// translated into a typed ChannelError so callers never depend on the
// provider library.
func (a *TwilioAdapter) Send(ctx context.Context, toPhone string, body string) (*domainMessaging.SendResult, error) {
	params := &openapi.CreateMessageParams{}
	params.SetTo(tagAddress(toPhone))
	params.SetFrom(a.from)
	params.SetBody(body)

	// The Twilio client does not take a context; honor cancellation before
	// the call at least.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg, err := a.client.Api.CreateMessage(params)
	if err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) {
			return nil, &domainMessaging.ChannelError{
				Code:    restErr.Code,
				Status:  restErr.Status,
				Message: restErr.Message,
			}
		}
		return nil, err
	}

	result := &domainMessaging.SendResult{}
	if msg.Sid != nil {
		result.MessageID = *msg.Sid
	}
	if msg.Status != nil {
		result.Status = *msg.Status
	}
	return result, nil
}

func tagAddress(phone string) string {
	if strings.HasPrefix(phone, channelTag) {
		return phone
	}
	return channelTag + phone
}
