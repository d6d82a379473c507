package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arogyalabs/arogyabot/internal/model"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(conv *model.Conversation) error {
	if err := r.db.Create(conv).Error; err != nil {
		return fmt.Errorf("create conversation failed: %w", err)
	}
	return nil
}

func (r *ConversationRepository) ListByUserID(userID uint) ([]model.Conversation, error) {
	var conversations []model.Conversation
	if err := r.db.Where("user_id = ? AND channel = ?", userID, model.ChannelWeb).
		Order("updated_at DESC").Find(&conversations).Error; err != nil {
		return nil, fmt.Errorf("list conversations failed: %w", err)
	}
	return conversations, nil
}

func (r *ConversationRepository) GetByIDAndUserID(conversationID, userID uint) (*model.Conversation, error) {
	var conv model.Conversation
	if err := r.db.Where("id = ? AND user_id = ?", conversationID, userID).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation failed: %w", err)
	}
	return &conv, nil
}

func (r *ConversationRepository) DeleteByIDAndUserID(conversationID, userID uint) error {
	if err := r.db.Where("id = ? AND user_id = ?", conversationID, userID).
		Delete(&model.Conversation{}).Error; err != nil {
		return fmt.Errorf("delete conversation failed: %w", err)
	}
	return nil
}

// FindOrCreateWhatsApp returns the thread for a WhatsApp sender address,
// creating it on first contact.
func (r *ConversationRepository) FindOrCreateWhatsApp(peer, language string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.Where("channel = ? AND peer = ?", model.ChannelWhatsApp, peer).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find whatsapp conversation failed: %w", err)
	}

	conv = model.Conversation{
		Channel:  model.ChannelWhatsApp,
		Peer:     peer,
		Title:    peer,
		Language: language,
	}
	if err := r.db.Create(&conv).Error; err != nil {
		return nil, fmt.Errorf("create whatsapp conversation failed: %w", err)
	}
	return &conv, nil
}
