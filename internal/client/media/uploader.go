// Package media uploads profile photos to the club's object storage bucket
// and returns the public URL under which they are served.
package media

import "context"

// Uploader stores a blob and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}
