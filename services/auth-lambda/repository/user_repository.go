package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mediashare-services/common/store"
	"github.com/mediashare-services/services/auth-lambda/models"
)

// UserRepository persists accounts in the Users collection.
type UserRepository struct {
	store store.Store
}

// NewUserRepository creates a user repository over the given store.
func NewUserRepository(st store.Store) *UserRepository {
	return &UserRepository{store: st}
}

// FindByUsername returns the user with the given username, or nil when no
// such account exists.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	doc, err := r.store.GetOne(ctx, store.CollectionUsers, store.Filter{"username": username})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return docToUser(doc), nil
}

// FindByID returns the user with the given id, or nil when absent.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.store.GetOne(ctx, store.CollectionUsers, store.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return docToUser(doc), nil
}

// Exists reports whether a username is already taken.
func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	doc, err := r.store.GetOne(ctx, store.CollectionUsers, store.Filter{"username": username})
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

// Create inserts a new account, assigning it an id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.store.Insert(ctx, store.CollectionUsers, store.Document{
		"id":         user.ID,
		"username":   user.Username,
		"full_name":  user.FullName,
		"email":      user.Email,
		"password":   user.Password,
		"disabled":   user.Disabled,
		"scopes":     user.Scopes,
		"created_at": user.CreatedAt,
	})
	return err
}

// UpdateScopes replaces the scope list of the named user. Returns the number
// of documents affected.
func (r *UserRepository) UpdateScopes(ctx context.Context, username string, scopes []string) (int64, error) {
	return r.store.Update(ctx, store.CollectionUsers,
		store.Filter{"username": username},
		store.Document{"scopes": scopes},
		false)
}

// UpdatePassword replaces the password digest of the named user.
func (r *UserRepository) UpdatePassword(ctx context.Context, username, passwordDigest string) (int64, error) {
	return r.store.Update(ctx, store.CollectionUsers,
		store.Filter{"username": username},
		store.Document{"password": passwordDigest},
		false)
}

// docToUser converts a raw store document into a User. Scope lists come back
// from the driver as []interface{}, so both shapes are handled.
func docToUser(doc store.Document) *models.User {
	user := &models.User{
		ID:       asString(doc["id"]),
		Username: asString(doc["username"]),
		FullName: asString(doc["full_name"]),
		Email:    asString(doc["email"]),
		Password: asString(doc["password"]),
	}
	if disabled, ok := doc["disabled"].(bool); ok {
		user.Disabled = disabled
	}
	user.Scopes = asStringSlice(doc["scopes"])
	if created, ok := doc["created_at"].(time.Time); ok {
		user.CreatedAt = created
	}
	return user
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v interface{}) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
