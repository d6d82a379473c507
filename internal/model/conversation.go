package model

import "time"

const (
	ChannelWeb      = "web"
	ChannelWhatsApp = "whatsapp"
)

// Conversation is a chat thread. Web threads belong to a registered user;
// WhatsApp threads are keyed by the sender address and carry UserID 0.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Channel   string    `gorm:"size:16;not null;index:idx_channel_peer" json:"channel"`
	Peer      string    `gorm:"size:64;index:idx_channel_peer" json:"peer,omitempty"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	Language  string    `gorm:"size:8;not null" json:"language"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
