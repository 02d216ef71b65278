package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Client represents a buyer interacting through the chat channel
type Client struct {
	gorm.Model
	ClientID string `gorm:"uniqueIndex;not null" json:"client_id"`
	Phone    string `gorm:"uniqueIndex;not null" json:"phone"`
	Username string `json:"username"`
}

// BeforeCreate assigns a client ID if none was provided
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ClientID == "" {
		c.ClientID = fmt.Sprintf("CL%d", time.Now().UnixNano())
	}
	return nil
}
