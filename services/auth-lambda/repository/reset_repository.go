package repository

import (
	"context"
	"time"

	"github.com/mediashare-services/common/store"
	"github.com/mediashare-services/services/auth-lambda/models"
)

// ResetRepository persists OTP reset state in the PasswordResetRequests
// collection, one document per user.
type ResetRepository struct {
	store store.Store
}

// NewResetRepository creates a reset repository over the given store.
func NewResetRepository(st store.Store) *ResetRepository {
	return &ResetRepository{store: st}
}

// FindByUserID returns the reset request for the given user, or nil when the
// user has never requested a reset.
func (r *ResetRepository) FindByUserID(ctx context.Context, userID string) (*models.PasswordResetRequest, error) {
	doc, err := r.store.GetOne(ctx, store.CollectionPasswordResets, store.Filter{"user_id": userID})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return docToResetRequest(doc), nil
}

// Upsert writes a fresh reset request for the user in a single conditional
// write. Any previous request for the same user is overwritten, so there is
// never more than one live OTP per account.
func (r *ResetRepository) Upsert(ctx context.Context, userID, otp string, expiry time.Time) error {
	_, err := r.store.Update(ctx, store.CollectionPasswordResets,
		store.Filter{"user_id": userID},
		store.Document{
			"reset_otp":            otp,
			"otp_expiry":           expiry,
			"password_changed":     false,
			"last_password_change": nil,
			"is_deleted":           false,
		},
		true)
	return err
}

// MarkConsumed flags the request as used and stamps the password change time,
// which anchors the cooldown for the next reset.
func (r *ResetRepository) MarkConsumed(ctx context.Context, userID string, changedAt time.Time) (int64, error) {
	return r.store.Update(ctx, store.CollectionPasswordResets,
		store.Filter{"user_id": userID},
		store.Document{
			"password_changed":     true,
			"last_password_change": changedAt,
		},
		false)
}

func docToResetRequest(doc store.Document) *models.PasswordResetRequest {
	req := &models.PasswordResetRequest{
		UserID:   asString(doc["user_id"]),
		ResetOTP: asString(doc["reset_otp"]),
	}
	if expiry, ok := doc["otp_expiry"].(time.Time); ok {
		req.OTPExpiry = expiry
	}
	if changed, ok := doc["password_changed"].(bool); ok {
		req.PasswordChanged = changed
	}
	if deleted, ok := doc["is_deleted"].(bool); ok {
		req.IsDeleted = deleted
	}
	if last, ok := doc["last_password_change"].(time.Time); ok {
		req.LastPasswordChange = &last
	}
	return req
}
