package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/arogyabot/internal/app"
	"github.com/arogyalabs/arogyabot/internal/i18n"
	"github.com/arogyalabs/arogyabot/internal/lang"
	"github.com/arogyalabs/arogyabot/internal/transport/http/response"
	"github.com/arogyalabs/arogyabot/internal/whatsapp"
)

// WebhookHandler terminates the Twilio WhatsApp webhook. Twilio expects
// a TwiML document on every response, including errors.
type WebhookHandler struct {
	webhookService *app.WebhookService
	sender         *whatsapp.Sender
	localizer      i18n.Localizer
}

type SendTestRequest struct {
	To   string `json:"to" binding:"required"`
	Body string `json:"body" binding:"required"`
}

func NewWebhookHandler(webhookService *app.WebhookService, sender *whatsapp.Sender, localizer i18n.Localizer) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		sender:         sender,
		localizer:      localizer,
	}
}

func (h *WebhookHandler) Inbound(c *gin.Context) {
	body := c.PostForm("Body")
	from := c.PostForm("From")

	reply, err := h.webhookService.HandleInbound(c.Request.Context(), app.InboundMessage{
		From: from,
		Body: body,
	})
	if err != nil {
		h.writeTwiML(c, http.StatusInternalServerError, h.localizer.Get(lang.Detect(body), i18n.MsgServerError))
		return
	}

	h.writeTwiML(c, http.StatusOK, reply.Body)
}

func (h *WebhookHandler) writeTwiML(c *gin.Context, status int, body string) {
	doc, err := whatsapp.ReplyTwiML(body)
	if err != nil {
		c.Data(http.StatusInternalServerError, "application/xml", []byte("<Response></Response>"))
		return
	}
	c.Data(status, "application/xml", []byte(doc))
}

// SendTest pushes a message through the Twilio REST API outside the
// webhook flow. Useful for verifying credentials and the sandbox number.
func (h *WebhookHandler) SendTest(c *gin.Context) {
	var req SendTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	sid, err := h.sender.Send(req.To, req.Body)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		return
	}

	response.OK(c, gin.H{"sid": sid})
}
