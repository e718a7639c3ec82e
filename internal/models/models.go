package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Client is a stored contact. Email and Phone are nil when absent.
type Client struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name  string  `gorm:"size:100;not null"`
	Email *string `gorm:"size:120"`
	Phone *string `gorm:"size:20"`

	// Lower-cased copies used for uniqueness. SQLite's LOWER() only folds ASCII,
	// so the keys are computed in Go before every write.
	NameKey  string  `gorm:"size:100;not null;uniqueIndex:idx_clients_name_key"`
	EmailKey *string `gorm:"size:120;uniqueIndex:idx_clients_email_key"` // NULLs never collide
}

func (c *Client) BeforeSave(tx *gorm.DB) error {
	c.NameKey = strings.ToLower(c.Name)
	if c.Email != nil {
		k := strings.ToLower(*c.Email)
		c.EmailKey = &k
	} else {
		c.EmailKey = nil
	}
	return nil
}

// EmailOrEmpty and PhoneOrEmpty are used by templates and the CSV writer.
func (c Client) EmailOrEmpty() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}

func (c Client) PhoneOrEmpty() string {
	if c.Phone == nil {
		return ""
	}
	return *c.Phone
}
