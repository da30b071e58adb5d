// Package storage uploads user images to the configured hosting provider.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bwise1/travel_planner_api/config"
	"github.com/bwise1/travel_planner_api/util"
)

const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

// Object is one file to upload.
type Object struct {
	Body        io.Reader
	Size        int64
	Filename    string
	ContentType string
	Folder      string
}

// Uploaded describes a stored object.
type Uploaded struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Provider string `json:"provider"`
}

type ImageStore interface {
	UploadImage(ctx context.Context, obj Object) (Uploaded, error)
}

// New returns the store selected by cfg.ImageStorage.
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch strings.ToLower(cfg.ImageStorage) {
	case ProviderS3:
		return NewS3(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3PublicURL)
	case ProviderCloudinary, "":
		return NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	default:
		return nil, fmt.Errorf("unknown image storage %q", cfg.ImageStorage)
	}
}

// objectKey builds folder/<token><ext> so uploads never collide.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 6 {
		ext = ""
	}
	return path.Join(strings.Trim(folder, "/"), util.GenerateToken()+ext)
}
