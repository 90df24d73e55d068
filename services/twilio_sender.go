package services

import (
	"context"

	"crml-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender sends reminders over Twilio SMS or WhatsApp.
type TwilioSender struct {
	client       *twilio.RestClient
	phoneNumber  string
	whatsAppFrom string
}

func NewTwilioSender(accountSid, authToken, phoneNumber, whatsAppNumber string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		phoneNumber:  phoneNumber,
		whatsAppFrom: whatsAppNumber,
	}
}

func (t *TwilioSender) Send(_ context.Context, channel, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(body)
	if channel == models.ChannelWhatsApp {
		params.SetFrom("whatsapp:" + t.whatsAppFrom)
	} else {
		params.SetFrom(t.phoneNumber)
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
