package messenger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type Config struct {
	AccountSID   string `json:"accountSid"`
	AuthToken    string `json:"authToken"`
	WhatsAppFrom string `json:"whatsappFrom"`
}

// Twilio sends WhatsApp messages through the Twilio REST API. With no
// credentials configured it silently no-ops, which keeps local development
// working without an account.
type Twilio struct {
	client *twilio.RestClient
	from   string
	log    *zap.Logger
}

func NewTwilio(cfg Config, log *zap.Logger) *Twilio {
	t := &Twilio{
		from: cfg.WhatsAppFrom,
		log:  log,
	}
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.WhatsAppFrom == "" {
		log.Info("twilio credentials not configured, proactive messages disabled")
		return t
	}
	t.client = twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return t
}

// From returns the configured WhatsApp sender number, or "" when disabled.
func (t *Twilio) From() string {
	if t.client == nil {
		return ""
	}
	return t.from
}

func (t *Twilio) Send(ctx context.Context, to, body string) error {
	return t.send(ctx, to, body, "")
}

func (t *Twilio) SendMedia(ctx context.Context, to, body, mediaURL string) error {
	return t.send(ctx, to, body, mediaURL)
}

func (t *Twilio) send(_ context.Context, to, body, mediaURL string) error {
	if t.client == nil {
		t.log.Info("skipping proactive send, twilio not configured",
			zap.String("to", to))
		return nil
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(WhatsAppAddr(t.from))
	params.SetTo(WhatsAppAddr(to))
	params.SetBody(body)
	if mediaURL != "" {
		params.SetMediaUrl([]string{mediaURL})
	}

	_, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	return nil
}

// WhatsAppAddr ensures the "whatsapp:" channel prefix Twilio expects.
func WhatsAppAddr(number string) string {
	number = strings.TrimSpace(number)
	if number == "" || strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
