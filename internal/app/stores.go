package app

import (
	"context"

	"github.com/arogyalabs/arogyabot/internal/model"
)

// Store interfaces let the services run against gorm repositories in
// production and fakes in tests.

type UserStore interface {
	Create(user *model.User) error
	GetByUsername(username string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByID(id uint) (*model.User, error)
}

type ConversationStore interface {
	Create(conv *model.Conversation) error
	ListByUserID(userID uint) ([]model.Conversation, error)
	GetByIDAndUserID(conversationID, userID uint) (*model.Conversation, error)
	DeleteByIDAndUserID(conversationID, userID uint) error
	FindOrCreateWhatsApp(peer, language string) (*model.Conversation, error)
}

type MessageStore interface {
	ListByConversationID(conversationID uint, limit int) ([]model.Message, error)
	ListRecentByConversationID(conversationID uint, n int) ([]model.Message, error)
	DeleteByConversationID(conversationID uint) error
}

// AsyncMessagePublisher enqueues messages for asynchronous persistence.
type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

// ReplyDispatcher enqueues WhatsApp reply jobs for the dispatch worker.
type ReplyDispatcher interface {
	Dispatch(ctx context.Context, job model.ReplyJob) error
}

// HistoryCache mirrors the Redis conversation-history cache.
type HistoryCache interface {
	GetHistory(ctx context.Context, conversationID uint) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, conversationID uint, messages []model.Message) error
	DeleteHistory(ctx context.Context, conversationID uint) error
	MarkDirty(ctx context.Context, conversationID uint) error
	IsDirty(ctx context.Context, conversationID uint) (bool, error)
}

// AnswerEngine produces a sourced answer in the requested language.
// history carries recent conversation turns for prompt context; nil is
// a single-shot question.
type AnswerEngine interface {
	Answer(ctx context.Context, question, lang string, history []model.Message) (string, []model.Source, error)
}
