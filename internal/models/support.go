package models

import "gorm.io/gorm"

// SupportMessage is one message of a client/admin support conversation.
// While a client session is in support mode every inbound text lands here.
type SupportMessage struct {
	gorm.Model
	ClientID string `gorm:"index;not null" json:"client_id"`
	Text     string `json:"text"`
	Author   string `json:"author"` // client or admin
	Username string `json:"username"`
}

// Support message author constants
const (
	SupportAuthorClient = "client"
	SupportAuthorAdmin  = "admin"
)
