package models

import "time"

// PasswordResetRequest is the OTP state document in the
// PasswordResetRequests collection. Each user has at most one: starting a
// new reset overwrites the previous request via upsert.
//
// LastPasswordChange is nil while a reset is pending; it is set when the OTP
// is consumed and doubles as the cooldown anchor for the next request.
type PasswordResetRequest struct {
	UserID             string     `json:"user_id"`
	ResetOTP           string     `json:"reset_otp"`
	OTPExpiry          time.Time  `json:"otp_expiry"`
	PasswordChanged    bool       `json:"password_changed"`
	LastPasswordChange *time.Time `json:"last_password_change"`
	IsDeleted          bool       `json:"is_deleted"`
}
