// Package models defines client-side views of server responses.
package models

import "time"

// Profile is the authenticated caller as the server sees it.
type Profile struct {
	UUID  string
	Email string
}

// DataSize is the total size of a user's active items.
type DataSize struct {
	Label string
	Bytes int64
}

// ItemInfo is one row of the size ranking.
type ItemInfo struct {
	UUID        string
	ContentType string
	Size        int64
}

// CachedKeyParams is a key parameter set remembered locally.
type CachedKeyParams struct {
	Email     string
	Params    map[string]any
	FetchedAt time.Time
}
