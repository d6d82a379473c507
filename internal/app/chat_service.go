package app

import (
	"context"
	"strings"
	"time"

	"github.com/arogyalabs/arogyabot/internal/i18n"
	"github.com/arogyalabs/arogyabot/internal/lang"
	"github.com/arogyalabs/arogyabot/internal/model"
)

// recentContextTurns bounds how many prior messages ride along as
// prompt context.
const recentContextTurns = 6

type ChatService struct {
	convStore    ConversationStore
	messageStore MessageStore
	publisher    AsyncMessagePublisher
	historyCache HistoryCache
	engine       AnswerEngine
	localizer    i18n.Localizer
}

type CreateConversationInput struct {
	UserID   uint
	Title    string
	Language string
}

type AskInput struct {
	UserID         uint
	ConversationID uint
	Question       string
	Language       string
}

type AskResult struct {
	Answer   string         `json:"answer"`
	Sources  []model.Source `json:"sources"`
	Language string         `json:"language"`
	// Notice carries the localized no-sources banner when the answer is
	// general guidance rather than a sourced one.
	Notice string `json:"notice,omitempty"`
}

func NewChatService(
	convStore ConversationStore,
	messageStore MessageStore,
	publisher AsyncMessagePublisher,
	historyCache HistoryCache,
	engine AnswerEngine,
	localizer i18n.Localizer,
) *ChatService {
	return &ChatService{
		convStore:    convStore,
		messageStore: messageStore,
		publisher:    publisher,
		historyCache: historyCache,
		engine:       engine,
		localizer:    localizer,
	}
}

func (s *ChatService) CreateConversation(input CreateConversationInput) (*model.Conversation, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "New Chat"
	}
	language := input.Language
	if language == "" {
		language = "en"
	}

	conv := &model.Conversation{
		UserID:   input.UserID,
		Channel:  model.ChannelWeb,
		Title:    title,
		Language: language,
	}
	if err := s.convStore.Create(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatService) ListConversations(userID uint) ([]model.Conversation, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.convStore.ListByUserID(userID)
}

func (s *ChatService) DeleteConversation(userID, conversationID uint) error {
	if userID == 0 || conversationID == 0 {
		return ErrInvalidInput
	}
	conv, err := s.convStore.GetByIDAndUserID(conversationID, userID)
	if err != nil {
		return err
	}
	if conv == nil {
		return ErrConversationNotFound
	}
	if err := s.messageStore.DeleteByConversationID(conversationID); err != nil {
		return err
	}
	if err := s.convStore.DeleteByIDAndUserID(conversationID, userID); err != nil {
		return err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(context.Background(), conversationID)
	}
	return nil
}

// Ask answers a question inside a conversation. Both turns are enqueued
// for asynchronous persistence; the caller gets the answer directly.
func (s *ChatService) Ask(ctx context.Context, input AskInput) (*AskResult, error) {
	if input.UserID == 0 || input.ConversationID == 0 {
		return nil, ErrInvalidInput
	}

	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, ErrMessageEmpty
	}

	conv, err := s.convStore.GetByIDAndUserID(input.ConversationID, input.UserID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}

	language := s.resolveLanguage(input.Language, conv.Language, question)

	// Recent turns feed the prompt as conversation context. A read
	// failure just means a context-less answer.
	history, err := s.messageStore.ListRecentByConversationID(conv.ID, recentContextTurns)
	if err != nil {
		history = nil
	}

	if s.publisher == nil {
		return nil, ErrMessageEnqueue
	}
	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, conv.ID)
		_ = s.historyCache.DeleteHistory(ctx, conv.ID)
	}

	userMessage := model.Message{
		ConversationID: conv.ID,
		UserID:         input.UserID,
		Role:           "user",
		Content:        question,
		Language:       language,
		CreatedAt:      time.Now(),
	}
	if err := s.publisher.Publish(ctx, userMessage); err != nil {
		return nil, ErrMessageEnqueue
	}

	answerText, sources, err := s.engine.Answer(ctx, question, language, history)
	if err != nil {
		return nil, err
	}

	assistantMessage := model.Message{
		ConversationID: conv.ID,
		UserID:         input.UserID,
		Role:           "assistant",
		Content:        answerText,
		Language:       language,
		CreatedAt:      time.Now(),
	}
	assistantMessage.SetSources(sources)
	if err := s.publisher.Publish(ctx, assistantMessage); err != nil {
		return nil, ErrMessageEnqueue
	}

	result := &AskResult{
		Answer:   answerText,
		Sources:  sources,
		Language: language,
	}
	if len(sources) == 0 {
		result.Notice = s.localizer.Get(language, i18n.MsgNoSourcesFound)
	}
	return result, nil
}

func (s *ChatService) GetHistory(userID, conversationID uint, limit int) ([]model.Message, error) {
	if userID == 0 || conversationID == 0 {
		return nil, ErrInvalidInput
	}

	conv, err := s.convStore.GetByIDAndUserID(conversationID, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}

	ctx := context.Background()
	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, conversationID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, conversationID); cacheErr == nil && hit {
				return trimMessages(cached, limit), nil
			}
		}
	}

	messages, err := s.messageStore.ListByConversationID(conversationID, limit)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, conversationID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, conversationID, messages)
		}
	}
	return messages, nil
}

// resolveLanguage prefers the explicit request language, then the
// conversation default, then detection from the question text.
func (s *ChatService) resolveLanguage(requested, conversationDefault, question string) string {
	switch requested {
	case "en", "bn", "hi":
		return requested
	}
	return lang.Normalize(conversationDefault, question)
}

func trimMessages(messages []model.Message, limit int) []model.Message {
	if limit <= 0 || limit >= len(messages) {
		return messages
	}
	return messages[len(messages)-limit:]
}
