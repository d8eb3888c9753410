// Package backup builds the restore document for a user's data and hands it
// to a Storage back-end (local directory or S3).
package backup

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/server/keyparams"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// FileName returns the deterministic backup name for an account. The email
// is path-escaped, so distinct emails never collapse onto one file.
func FileName(email string) string {
	return fmt.Sprintf("%s-restore.txt", url.PathEscape(email))
}

// Item is one exported record. It carries everything an import needs to
// recreate the item.
type Item struct {
	UUID        string    `json:"uuid"`
	Content     string    `json:"content"`
	ContentType string    `json:"content_type"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Document is the restore file layout. AuthParams lets an import re-derive
// the key that decrypts the items.
type Document struct {
	Items      []Item           `json:"items"`
	AuthParams keyparams.Params `json:"auth_params"`
}

func NewDocument(items []*models.Item, params keyparams.Params) *Document {
	d := &Document{
		Items:      make([]Item, 0, len(items)),
		AuthParams: params,
	}
	for _, it := range items {
		d.Items = append(d.Items, Item{
			UUID:        it.UUID,
			Content:     it.Content,
			ContentType: it.ContentType,
			Deleted:     it.Deleted,
			CreatedAt:   it.CreatedAt,
			UpdatedAt:   it.UpdatedAt,
		})
	}
	return d
}

// Marshal encodes the document as indented JSON.
func (d *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
