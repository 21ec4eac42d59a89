package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mediashare-services/common/store"
	"github.com/mediashare-services/services/media-lambda/models"
)

// ContentRepository persists media documents in the Contents collection.
// Every lookup is owner-scoped: callers can only see and touch their own
// items.
type ContentRepository struct {
	store store.Store
}

// NewContentRepository creates a content repository over the given store.
func NewContentRepository(st store.Store) *ContentRepository {
	return &ContentRepository{store: st}
}

// Create inserts a new content item, assigning it an id and timestamps.
func (r *ContentRepository) Create(ctx context.Context, item *models.ContentItem) error {
	now := time.Now()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.UploadTime = now
	item.LastModified = now

	_, err := r.store.Insert(ctx, store.CollectionContents, store.Document{
		"id":                item.ID,
		"username":          item.Username,
		"upload_time":       item.UploadTime,
		"last_modified":     item.LastModified,
		"image":             item.Image,
		"file_path":         item.FilePath,
		"is_image":          item.IsImage,
		"file_content_type": item.FileContentType,
	})
	return err
}

// FindByOwner returns every item the user owns, optionally restricted to
// images or videos.
func (r *ContentRepository) FindByOwner(ctx context.Context, username string, imagesOnly *bool) ([]*models.ContentItem, error) {
	filter := store.Filter{"username": username}
	if imagesOnly != nil {
		filter["is_image"] = *imagesOnly
	}

	docs, err := r.store.Get(ctx, store.CollectionContents, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*models.ContentItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, docToContent(doc))
	}
	return items, nil
}

// FindOwned returns a single item when it exists and belongs to the user,
// nil otherwise.
func (r *ContentRepository) FindOwned(ctx context.Context, username, id string) (*models.ContentItem, error) {
	doc, err := r.store.GetOne(ctx, store.CollectionContents, store.Filter{"id": id, "username": username})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return docToContent(doc), nil
}

// UpdateImage replaces the payload of an owned image. Returns the number of
// documents affected.
func (r *ContentRepository) UpdateImage(ctx context.Context, username, id, image, contentType string) (int64, error) {
	return r.store.Update(ctx, store.CollectionContents,
		store.Filter{"id": id, "username": username, "is_image": true},
		store.Document{
			"image":             image,
			"file_content_type": contentType,
			"last_modified":     time.Now(),
		},
		false)
}

// Delete removes an owned item. Returns the number of documents removed.
func (r *ContentRepository) Delete(ctx context.Context, username, id string) (int64, error) {
	return r.store.Delete(ctx, store.CollectionContents, store.Filter{"id": id, "username": username})
}

func docToContent(doc store.Document) *models.ContentItem {
	item := &models.ContentItem{
		ID:              asString(doc["id"]),
		Username:        asString(doc["username"]),
		Image:           asString(doc["image"]),
		FilePath:        asString(doc["file_path"]),
		FileContentType: asString(doc["file_content_type"]),
	}
	if isImage, ok := doc["is_image"].(bool); ok {
		item.IsImage = isImage
	}
	if uploaded, ok := doc["upload_time"].(time.Time); ok {
		item.UploadTime = uploaded
	}
	if modified, ok := doc["last_modified"].(time.Time); ok {
		item.LastModified = modified
	}
	return item
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
