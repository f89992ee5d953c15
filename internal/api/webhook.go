package api

import (
	"fmt"
	"net/http"
	"strings"

	"innovation_hunt/internal/categorizer"
	"innovation_hunt/internal/messenger"
	"innovation_hunt/internal/service"
	"innovation_hunt/pkg/auth"
	"innovation_hunt/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"
)

type webhookRoutes struct {
	users      *service.UserService
	onboarding *service.OnboardingService
	game       *service.GameService
	classifier categorizer.Client
	sender     messenger.Sender
	live       *LiveLeaderboard

	joinKeyword string
	botNumber   string
	baseURL     string
}

func NewWebhookRoutes(
	handler *gin.RouterGroup,
	svc *service.Service,
	classifier categorizer.Client,
	sender messenger.Sender,
	live *LiveLeaderboard,
	a *auth.TwilioAuth,
	joinKeyword, botNumber, baseURL string,
) {
	r := &webhookRoutes{
		users:       svc.UserService,
		onboarding:  svc.OnboardingService,
		game:        svc.GameService,
		classifier:  classifier,
		sender:      sender,
		live:        live,
		joinKeyword: joinKeyword,
		botNumber:   botNumber,
		baseURL:     baseURL,
	}

	h := handler.Group("/webhook")
	h.Use(a.TwilioAuthMiddleware())
	h.POST("/whatsapp", r.HandleInbound)
}

// HandleInbound is the single entry point for every WhatsApp message:
// ensure the sender exists, then dispatch on the message shape (connect
// code, join keyword, or an onboarding answer).
func (r *webhookRoutes) HandleInbound(c *gin.Context) {
	log := logger.Logger()
	ctx := c.Request.Context()

	from := strings.TrimSpace(c.PostForm("From"))
	body := strings.TrimSpace(c.PostForm("Body"))

	if _, err := r.users.EnsureUser(ctx, from); err != nil {
		log.Error("failed to ensure user", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	if code, ok := service.ParseConnectCode(body); ok {
		r.handleConnect(c, from, code)
		return
	}

	if strings.HasPrefix(strings.ToLower(body), strings.ToLower(r.joinKeyword)) {
		reply, err := r.onboarding.Start(ctx, from)
		if err != nil {
			log.Error("failed to start onboarding", zap.Error(err))
			respondMessages(c, textMessage("Something went wrong. Please try again."))
			return
		}
		respondMessages(c, textMessage(reply))
		return
	}

	reply, aboutDone, err := r.onboarding.HandleMessage(ctx, from, body)
	if err != nil {
		log.Error("failed to handle onboarding message", zap.Error(err))
		respondMessages(c, textMessage("Something went wrong. Please try again."))
		return
	}
	if !aboutDone {
		respondMessages(c, textMessage(reply))
		return
	}

	r.finishRegistration(c, from, reply)
}

func (r *webhookRoutes) handleConnect(c *gin.Context, from, code string) {
	log := logger.Logger()
	ctx := c.Request.Context()

	res, err := r.game.ConnectUsers(ctx, from, code)
	if err != nil {
		log.Error("connect failed", zap.Error(err))
		respondMessages(c, textMessage("Something went wrong. Please try again."))
		return
	}

	respondMessages(c, textMessage(res.MessageToConnector))

	if !res.OK {
		return
	}

	// Proactive connectee notification is best-effort and never rolls
	// back the recorded connection.
	if res.MessageToConnectee != "" {
		if err := r.sender.Send(ctx, res.ConnecteePhone, res.MessageToConnectee); err != nil {
			log.Warn("proactive notification failed",
				zap.String("to", res.ConnecteePhone),
				zap.Error(err))
		}
	}

	r.live.Broadcast(ctx)
}

// finishRegistration runs after the ABOUT step completed: categorize the
// bio, persist the label and hand the user their QR code.
func (r *webhookRoutes) finishRegistration(c *gin.Context, from, reply string) {
	log := logger.Logger()
	ctx := c.Request.Context()

	user, err := r.users.GetByPhone(ctx, from)
	if err != nil {
		log.Error("failed to load user after registration", zap.Error(err))
		respondMessages(c, textMessage(reply))
		return
	}

	result := categorizer.CategorizeOrDefault(ctx, r.classifier, user.RawProfileText)
	if err := r.users.SetCategory(ctx, from, result.Category); err != nil {
		log.Error("failed to persist category", zap.Error(err))
	}
	log.Info("profile categorized",
		zap.String("user_id", user.UserID),
		zap.String("category", string(result.Category)),
		zap.String("reasoning", result.Reasoning))

	if r.botNumber == "" {
		respondMessages(c,
			textMessage(reply),
			textMessage("Set the WhatsApp sender number to receive your QR."))
		return
	}

	msg := &twiml.MessagingMessage{
		Body: fmt.Sprintf("%s\nCategory: %s.\nHere is your QR code. Have others scan it to connect!",
			reply, result.Category),
	}
	msg.InnerElements = []twiml.Element{
		&twiml.MessagingMedia{Url: r.publicURLFor(c, "/api/v1/media/qr/"+user.UserID+".jpg")},
	}
	respondMessages(c, msg)
}

// publicURLFor builds a URL Twilio can fetch. Behind a tunnel the app sees
// plain http, but the forwarded headers carry the public scheme and host.
func (r *webhookRoutes) publicURLFor(c *gin.Context, path string) string {
	scheme := c.GetHeader("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
	}
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}
	if host != "" {
		return scheme + "://" + host + path
	}
	return strings.TrimRight(r.baseURL, "/") + path
}

func respondMessages(c *gin.Context, verbs ...twiml.Element) {
	xml, err := twiml.Messages(verbs)
	if err != nil {
		logger.Logger().Error("failed to render twiml", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Content-Type", "application/xml")
	c.String(http.StatusOK, xml)
}

func textMessage(body string) twiml.Element {
	return &twiml.MessagingMessage{Body: body}
}
