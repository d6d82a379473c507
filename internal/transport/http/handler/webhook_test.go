package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyalabs/arogyabot/internal/app"
	"github.com/arogyalabs/arogyabot/internal/i18n"
	"github.com/arogyalabs/arogyabot/internal/model"
	"github.com/arogyalabs/arogyabot/internal/whatsapp"
)

type stubConversationStore struct {
	conv model.Conversation
	err  error
}

func (s *stubConversationStore) Create(conv *model.Conversation) error { return nil }
func (s *stubConversationStore) ListByUserID(userID uint) ([]model.Conversation, error) {
	return nil, nil
}
func (s *stubConversationStore) GetByIDAndUserID(conversationID, userID uint) (*model.Conversation, error) {
	return nil, nil
}
func (s *stubConversationStore) DeleteByIDAndUserID(conversationID, userID uint) error { return nil }
func (s *stubConversationStore) FindOrCreateWhatsApp(peer, language string) (*model.Conversation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.conv, nil
}

type stubPublisher struct{ err error }

func (p *stubPublisher) Publish(ctx context.Context, msg model.Message) error { return p.err }

type stubDispatcher struct{ jobs int }

func (d *stubDispatcher) Dispatch(ctx context.Context, job model.ReplyJob) error {
	d.jobs++
	return nil
}

type stubEngine struct {
	answer string
	err    error
}

func (e *stubEngine) Answer(ctx context.Context, question, lang string, history []model.Message) (string, []model.Source, error) {
	return e.answer, nil, e.err
}

func newWebhookRouter(engine *stubEngine, convErr error) *gin.Engine {
	gin.SetMode(gin.TestMode)

	localizer := i18n.Default()
	svc := app.NewWebhookService(
		&stubConversationStore{conv: model.Conversation{ID: 1}, err: convErr},
		&stubPublisher{},
		&stubDispatcher{},
		engine,
		localizer,
		true,
		time.Second,
	)
	h := NewWebhookHandler(svc, whatsapp.NewSender("", "", ""), localizer)

	router := gin.New()
	router.POST("/webhook", h.Inbound)
	return router
}

func postForm(router *gin.Engine, fields map[string]string) *httptest.ResponseRecorder {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookInboundAnswers(t *testing.T) {
	router := newWebhookRouter(&stubEngine{answer: "Rest and hydrate."}, nil)

	w := postForm(router, map[string]string{
		"Body": "What helps with the flu?",
		"From": "whatsapp:+10000000000",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "<Message>Rest and hydrate.</Message>")
}

func TestWebhookInboundEmptyBody(t *testing.T) {
	router := newWebhookRouter(&stubEngine{answer: "unused"}, nil)

	w := postForm(router, map[string]string{
		"Body": "",
		"From": "whatsapp:+10000000000",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please send a message.")
}

func TestWebhookInboundEngineErrorStays200(t *testing.T) {
	router := newWebhookRouter(&stubEngine{err: assert.AnError}, nil)

	w := postForm(router, map[string]string{
		"Body": "What helps with the flu?",
		"From": "whatsapp:+10000000000",
	})

	localizer := i18n.Default()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), localizer.Get("en", i18n.MsgErrorMessage))
}

func TestWebhookInboundServiceErrorIsTwiML(t *testing.T) {
	router := newWebhookRouter(&stubEngine{answer: "unused"}, assert.AnError)

	w := postForm(router, map[string]string{
		"Body": "What helps with the flu?",
		"From": "whatsapp:+10000000000",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "<Response>")
}
