package storage

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

type Cloudinary struct {
	CLD *cloudinary.Cloudinary
}

func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, errors.Wrap(err, "initialize cloudinary")
	}
	return &Cloudinary{CLD: cld}, nil
}

func (c *Cloudinary) UploadImage(ctx context.Context, obj Object) (Uploaded, error) {
	resp, err := c.CLD.Upload.Upload(ctx, obj.Body, uploader.UploadParams{Folder: obj.Folder})
	if err != nil {
		return Uploaded{}, errors.Wrap(err, "cloudinary upload")
	}
	if resp.Error.Message != "" {
		return Uploaded{}, errors.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return Uploaded{URL: resp.SecureURL, PublicID: resp.PublicID, Provider: ProviderCloudinary}, nil
}
