package backup

import "context"

// Storage persists a finished backup and returns where it can be fetched
// from: a file path for local storage, a presigned URL for S3.
type Storage interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}
