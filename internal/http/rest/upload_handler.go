package rest

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/bwise1/travel_planner_api/internal/db"
	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/storage"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	maxImageSize   = 10 << 20
	uploadTimeout  = 30 * time.Second
	photosFolder   = "travel_planner/photos"
	profilesFolder = "travel_planner/profiles"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var errNotImage = errors.New("file is not a supported image")

// parseUploadForm caps the body and parses the multipart form once.
func parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	if r.MultipartForm != nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+(1<<20))
	return r.ParseMultipartForm(maxImageSize)
}

// readImage pulls the "image" part out of a multipart request and sniffs its
// content type. The caller closes the returned file.
func readImage(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, string, error) {
	if err := parseUploadForm(w, r); err != nil {
		return nil, nil, "", err
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, nil, "", err
	}
	if header.Size > maxImageSize {
		file.Close()
		return nil, nil, "", errNotImage
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		file.Close()
		return nil, nil, "", err
	}
	contentType := http.DetectContentType(sniff[:n])
	if !allowedImageTypes[contentType] {
		file.Close()
		return nil, nil, "", errNotImage
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, nil, "", err
	}
	return file, header, contentType, nil
}

func (api *API) uploadImage(ctx context.Context, w http.ResponseWriter, r *http.Request, folder string) (storage.Uploaded, string, string, error) {
	if api.Deps.Images == nil {
		return storage.Uploaded{}, values.Unprocessable, "Image uploads are not configured", nil
	}

	file, header, contentType, err := readImage(w, r)
	if err != nil {
		if errors.Is(err, errNotImage) {
			return storage.Uploaded{}, values.BadRequestBody, "image must be a JPEG, PNG, GIF or WebP file of at most 10MB", err
		}
		return storage.Uploaded{}, values.BadRequestBody, "a multipart image field is required", err
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	uploaded, err := api.Deps.Images.UploadImage(ctx, storage.Object{
		Body:        file,
		Size:        header.Size,
		Filename:    header.Filename,
		ContentType: contentType,
		Folder:      folder,
	})
	if err != nil {
		return storage.Uploaded{}, values.Error, "Failed to upload image", err
	}
	return uploaded, values.Success, "", nil
}

func (api *API) UploadImage(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	if err := parseUploadForm(w, r); err != nil {
		return respondWithError(err, "a multipart image field is required", values.BadRequestBody, &tc)
	}

	var tripID *primitive.ObjectID
	if raw := r.FormValue("tripId"); raw != "" {
		id, err := util.ParseObjectID(raw)
		if err != nil {
			return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
		}
		owned, err := api.TripOwnedBy(r.Context(), id, userID)
		if err != nil {
			return respondWithError(err, "Failed to check trip", values.Error, &tc)
		}
		if !owned {
			return respondWithError(nil, "Trip not found", values.NotFound, &tc)
		}
		tripID = &id
	}

	uploaded, status, message, err := api.uploadImage(r.Context(), w, r, photosFolder)
	if status != values.Success {
		return respondWithError(err, message, status, &tc)
	}

	photo := model.Photo{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		TripID:    tripID,
		URL:       uploaded.URL,
		PublicID:  uploaded.PublicID,
		Provider:  uploaded.Provider,
		Caption:   strings.TrimSpace(r.FormValue("caption")),
		CreatedAt: time.Now().UTC(),
	}
	if err := api.CreatePhotoRepo(r.Context(), &photo); err != nil {
		return respondWithError(err, "Failed to save photo", values.Error, &tc)
	}
	return respond(values.Created, "Image uploaded successfully", photo)
}

func (api *API) UploadProfilePicture(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	uploaded, status, message, err := api.uploadImage(r.Context(), w, r, profilesFolder)
	if status != values.Success {
		return respondWithError(err, message, status, &tc)
	}

	user, err := api.UpdateUserRepo(r.Context(), userID, bson.M{"profile_picture": uploaded.URL})
	if errors.Is(err, errNotFound) {
		return respondWithError(err, "User not found", values.NotFound, &tc)
	}
	if err != nil {
		return respondWithError(err, "Failed to update profile picture", values.Error, &tc)
	}
	return respond(values.Success, "Profile picture updated", user)
}

func (api *API) ListPhotos(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	filter := bson.M{"user_id": userID}
	if raw := r.URL.Query().Get("tripId"); raw != "" {
		tripID, err := util.ParseObjectID(raw)
		if err != nil {
			return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
		}
		filter["trip_id"] = tripID
	}

	photos, err := api.ListPhotosRepo(r.Context(), filter)
	if err != nil {
		return respondWithError(err, "Failed to list photos", values.Error, &tc)
	}
	return respond(values.Success, "Photos returned successfully", photos)
}

func (api *API) CreatePhotoRepo(ctx context.Context, photo *model.Photo) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := api.Deps.DB.Collection(db.Photos).InsertOne(ctx, photo)
	return err
}

func (api *API) ListPhotosRepo(ctx context.Context, filter bson.M) ([]model.Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := api.Deps.DB.Collection(db.Photos).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	photos := []model.Photo{}
	if err := cur.All(ctx, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}
