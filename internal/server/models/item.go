package models

import "time"

// Item is a per-user data record. Content is opaque ciphertext except for
// feature-configuration items, whose content embeds an encoded payload.
type Item struct {
	UUID        string
	UserUUID    string
	Content     string
	ContentType string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Size is the content length in bytes.
func (i *Item) Size() int {
	return len(i.Content)
}
