package service

import (
	"context"
	"io"
)

// ImageStore keeps uploaded task and proof images and returns a public URL
// clients store in task_image_url or submission_details.
type ImageStore interface {
	Upload(ctx context.Context, r io.Reader, contentType, folder string) (string, error)
	Delete(ctx context.Context, url string) error
}
