package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3UploadImage(t *testing.T) {
	fake := &fakeS3{}
	store := &S3{client: fake, bucket: "photos", publicURL: "https://cdn.example.com"}

	up, err := store.UploadImage(context.Background(), Object{
		Body:        strings.NewReader("jpeg-bytes"),
		Size:        10,
		Filename:    "Beach.JPG",
		ContentType: "image/jpeg",
		Folder:      "/trips/",
	})
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if !strings.HasPrefix(up.PublicID, "trips/") || !strings.HasSuffix(up.PublicID, ".jpg") {
		t.Errorf("key = %q", up.PublicID)
	}
	if up.URL != "https://cdn.example.com/"+up.PublicID || up.Provider != ProviderS3 {
		t.Errorf("uploaded = %+v", up)
	}
	if *fake.in.Bucket != "photos" || *fake.in.ContentType != "image/jpeg" || *fake.in.ContentLength != 10 {
		t.Errorf("input = %+v", fake.in)
	}
	if fake.body != "jpeg-bytes" {
		t.Errorf("body = %q", fake.body)
	}
}

func TestS3UploadImageError(t *testing.T) {
	store := &S3{client: &fakeS3{err: errors.New("denied")}, bucket: "photos", publicURL: "https://x"}
	if _, err := store.UploadImage(context.Background(), Object{Body: strings.NewReader(""), Filename: "a.png"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestObjectKey(t *testing.T) {
	testCases := []struct {
		folder, filename, prefix, suffix string
	}{
		{"profile", "me.png", "profile/", ".png"},
		{"", "noext", "", ""},
		{"a/b", "weird.extension", "a/b/", ""},
	}
	for _, tc := range testCases {
		key := objectKey(tc.folder, tc.filename)
		if !strings.HasPrefix(key, tc.prefix) || !strings.HasSuffix(key, tc.suffix) {
			t.Errorf("objectKey(%q, %q) = %q", tc.folder, tc.filename, key)
		}
	}
}
