package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mediashare-services/common/config"
	apperrors "github.com/mediashare-services/common/errors"
	"github.com/mediashare-services/common/logger"
	"github.com/mediashare-services/common/qrcode"
	"github.com/mediashare-services/services/media-lambda/models"
	"github.com/mediashare-services/services/media-lambda/repository"
	"github.com/mediashare-services/services/media-lambda/storage"
)

// presignExpiry bounds how long a download link stays valid.
const presignExpiry = 15 * time.Minute

// MediaUsecase implements the content flows. Images are kept inline in the
// document store; videos go to object storage with only their key and
// thumbnail in the store.
type MediaUsecase struct {
	contents *repository.ContentRepository
	objects  storage.ObjectStorage
	cfg      *config.Config
	log      *logger.Logger
}

// NewMediaUsecase wires the content flows together.
func NewMediaUsecase(contents *repository.ContentRepository, objects storage.ObjectStorage, cfg *config.Config) *MediaUsecase {
	return &MediaUsecase{
		contents: contents,
		objects:  objects,
		cfg:      cfg,
		log:      logger.With("component", "media"),
	}
}

// ============================================================
// Images
// ============================================================

// UploadImage stores a base64 image inline.
func (u *MediaUsecase) UploadImage(ctx context.Context, username string, req models.UploadImageRequest) (*models.ContentItem, error) {
	if req.Image == "" {
		return nil, apperrors.MissingField("image")
	}
	if _, err := base64.StdEncoding.DecodeString(req.Image); err != nil {
		return nil, apperrors.ValidationError("Image must be valid base64")
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	item := &models.ContentItem{
		Username:        username,
		Image:           req.Image,
		IsImage:         true,
		FileContentType: contentType,
	}
	if err := u.contents.Create(ctx, item); err != nil {
		return nil, apperrors.StorageError(err)
	}

	u.log.Info("image uploaded by %s, id=%s", username, item.ID)
	return item, nil
}

// ListContent returns the caller's items. imagesOnly narrows the listing to
// images or videos when non-nil.
func (u *MediaUsecase) ListContent(ctx context.Context, username string, imagesOnly *bool) ([]*models.ContentItem, error) {
	items, err := u.contents.FindByOwner(ctx, username, imagesOnly)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	return items, nil
}

// GetContent returns a single owned item.
func (u *MediaUsecase) GetContent(ctx context.Context, username, id string) (*models.ContentItem, error) {
	item, err := u.contents.FindOwned(ctx, username, id)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	if item == nil {
		return nil, apperrors.NotFound("Content")
	}
	return item, nil
}

// UpdateImage replaces the payload of an owned image.
func (u *MediaUsecase) UpdateImage(ctx context.Context, username, id string, req models.UpdateImageRequest) error {
	if req.Image == "" {
		return apperrors.MissingField("image")
	}
	if _, err := base64.StdEncoding.DecodeString(req.Image); err != nil {
		return apperrors.ValidationError("Image must be valid base64")
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	affected, err := u.contents.UpdateImage(ctx, username, id, req.Image, contentType)
	if err != nil {
		return apperrors.StorageError(err)
	}
	if affected == 0 {
		return apperrors.NotFound("Image")
	}

	u.log.Info("image updated by %s, id=%s", username, id)
	return nil
}

// DeleteImage removes an owned image.
func (u *MediaUsecase) DeleteImage(ctx context.Context, username, id string) error {
	item, err := u.contents.FindOwned(ctx, username, id)
	if err != nil {
		return apperrors.StorageError(err)
	}
	if item == nil || !item.IsImage {
		return apperrors.NotFound("Image")
	}

	if _, err := u.contents.Delete(ctx, username, id); err != nil {
		return apperrors.StorageError(err)
	}

	u.log.Info("image deleted by %s, id=%s", username, id)
	return nil
}

// ============================================================
// Videos
// ============================================================

// UploadVideo decodes the payload, uploads it to object storage and records
// the item with a first-frame thumbnail when one can be extracted.
func (u *MediaUsecase) UploadVideo(ctx context.Context, username string, req models.UploadVideoRequest) (*models.ContentItem, error) {
	if req.Video == "" {
		return nil, apperrors.MissingField("video")
	}
	data, err := base64.StdEncoding.DecodeString(req.Video)
	if err != nil {
		return nil, apperrors.ValidationError("Video must be valid base64")
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "video/mp4"
	}

	thumbnail, err := extractThumbnail(ctx, data)
	if err != nil {
		u.log.WithError(err).Warn("thumbnail extraction failed for %s", username)
	}

	// Blob first, document second: a failed insert leaves an unreferenced
	// blob, never a document pointing at a missing blob.
	id := uuid.NewString()
	key := fmt.Sprintf("videos/%s/%s", username, id)
	if err := u.objects.Put(ctx, key, data, contentType); err != nil {
		return nil, apperrors.StorageError(err)
	}

	item := &models.ContentItem{
		ID:              id,
		Username:        username,
		Image:           thumbnail,
		FilePath:        key,
		IsImage:         false,
		FileContentType: contentType,
	}
	if err := u.contents.Create(ctx, item); err != nil {
		u.objects.Delete(ctx, key)
		return nil, apperrors.StorageError(err)
	}

	u.log.Info("video uploaded by %s, id=%s", username, item.ID)
	return item, nil
}

// DownloadVideo returns a presigned URL for an owned video.
func (u *MediaUsecase) DownloadVideo(ctx context.Context, username, id string) (*models.DownloadVideoResponse, error) {
	item, err := u.contents.FindOwned(ctx, username, id)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	if item == nil || item.IsImage || item.FilePath == "" {
		return nil, apperrors.NotFound("Video")
	}

	url, err := u.objects.PresignGet(ctx, item.FilePath, presignExpiry)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	return &models.DownloadVideoResponse{ID: id, URL: url}, nil
}

// DeleteVideo removes an owned video and its blob.
func (u *MediaUsecase) DeleteVideo(ctx context.Context, username, id string) error {
	item, err := u.contents.FindOwned(ctx, username, id)
	if err != nil {
		return apperrors.StorageError(err)
	}
	if item == nil || item.IsImage {
		return apperrors.NotFound("Video")
	}

	if item.FilePath != "" {
		if err := u.objects.Delete(ctx, item.FilePath); err != nil {
			return apperrors.StorageError(err)
		}
	}
	if _, err := u.contents.Delete(ctx, username, id); err != nil {
		return apperrors.StorageError(err)
	}

	u.log.Info("video deleted by %s, id=%s", username, id)
	return nil
}

// ============================================================
// Sharing
// ============================================================

// ShareContent builds a share link for an owned item and renders it as a QR
// code clients can embed directly.
func (u *MediaUsecase) ShareContent(ctx context.Context, username, id string) (*models.ShareResponse, error) {
	item, err := u.contents.FindOwned(ctx, username, id)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	if item == nil {
		return nil, apperrors.NotFound("Content")
	}

	shareURL := fmt.Sprintf("%s/%s", u.cfg.ShareBaseURL, item.ID)
	qr, err := qrcode.GenerateQRCodeBase64(shareURL, 256)
	if err != nil {
		return nil, apperrors.Internal("Failed to render QR code").WithCause(err)
	}

	return &models.ShareResponse{ID: item.ID, ShareURL: shareURL, QRCode: qr}, nil
}
