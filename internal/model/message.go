package model

import (
	"encoding/json"
	"time"
)

// Source is a verified link an answer was grounded on.
type Source struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Message is one turn of a conversation. Sources is stored as a JSON
// array for portability.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversation_id"`
	UserID         uint      `gorm:"index" json:"user_id"`
	Role           string    `gorm:"size:16;not null;index" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Language       string    `gorm:"size:8" json:"language,omitempty"`
	Sources        string    `gorm:"type:text" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// SourceList returns the parsed sources; empty on parse error.
func (m *Message) SourceList() []Source {
	if m.Sources == "" {
		return nil
	}
	var list []Source
	_ = json.Unmarshal([]byte(m.Sources), &list)
	return list
}

// SetSources stores the sources as JSON.
func (m *Message) SetSources(list []Source) {
	if len(list) == 0 {
		m.Sources = ""
		return
	}
	b, _ := json.Marshal(list)
	m.Sources = string(b)
}
