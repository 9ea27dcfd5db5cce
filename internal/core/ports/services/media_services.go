package services

import (
	"context"
	"io"
)

// Media folders under which uploaded objects are keyed.
const (
	MediaFolderAvatars = "avatars"
	MediaFolderCovers  = "covers"
)

// FileUpload is an in-flight file received from a multipart request.
type FileUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

// MediaUploader stores a blob and returns its public URL. Upload failures are
// request-level errors; the core never retries them.
type MediaUploader interface {
	Upload(ctx context.Context, folder string, file *FileUpload) (string, error)
}
