package usecase

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/mediashare-services/common/config"
	apperrors "github.com/mediashare-services/common/errors"
	"github.com/mediashare-services/common/hash"
	"github.com/mediashare-services/common/logger"
	"github.com/mediashare-services/common/otp"
	"github.com/mediashare-services/common/scopes"
	"github.com/mediashare-services/common/token"
	"github.com/mediashare-services/common/validator"
	"github.com/mediashare-services/services/auth-lambda/models"
	"github.com/mediashare-services/services/auth-lambda/repository"
)

// Mailer is the outbound mail dependency of the auth flows. The email
// service satisfies it in production; tests use a recording double.
type Mailer interface {
	SendOTPEmail(ctx context.Context, to, code string) error
}

// AuthUsecase implements the authentication and account flows.
type AuthUsecase struct {
	users  *repository.UserRepository
	resets *repository.ResetRepository
	tokens *token.Service
	mailer Mailer
	cfg    *config.Config
	log    *logger.Logger

	// now is swapped out by tests that exercise expiry and cooldown windows.
	now func() time.Time
}

// NewAuthUsecase wires the auth flows together.
func NewAuthUsecase(users *repository.UserRepository, resets *repository.ResetRepository,
	tokens *token.Service, mailer Mailer, cfg *config.Config) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		resets: resets,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
		log:    logger.With("component", "auth"),
		now:    time.Now,
	}
}

// ============================================================
// Login
// ============================================================

// Login verifies credentials and issues a bearer token carrying the user's
// scopes. Unknown usernames and wrong passwords produce the same error, so
// the response never reveals whether an account exists.
func (u *AuthUsecase) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperrors.MissingField("username and password")
	}

	user, err := u.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	if user == nil || !hash.VerifyPassword(req.Password, user.Password) {
		return nil, apperrors.InvalidCredentials()
	}
	if user.Disabled {
		return nil, apperrors.UserDisabled()
	}

	tokenString, err := u.tokens.Issue(user.Username, user.Scopes, u.cfg.TokenTTL)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token").WithCause(err)
	}

	u.log.Info("user logged in: %s", user.Username)
	return &models.AuthResponse{Token: tokenString, TokenType: "bearer"}, nil
}

// ============================================================
// Registration
// ============================================================

// Register creates a regular account and logs it straight in.
func (u *AuthUsecase) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	user, err := u.createAccount(ctx, req, []string{scopes.User})
	if err != nil {
		return nil, err
	}

	tokenString, err := u.tokens.Issue(user.Username, user.Scopes, u.cfg.TokenTTL)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token").WithCause(err)
	}

	u.log.Info("user registered: %s", user.Username)
	return &models.AuthResponse{Token: tokenString, TokenType: "bearer"}, nil
}

// RegisterModerator creates a moderator account. When master is true the
// account also carries the master moderator scope. No token is issued; the
// new moderator logs in separately.
func (u *AuthUsecase) RegisterModerator(ctx context.Context, req models.RegisterRequest, master bool) (*models.User, error) {
	accountScopes := []string{scopes.Moderator, scopes.User}
	if master {
		accountScopes = []string{scopes.Moderator, scopes.MasterModerator, scopes.User}
	}

	user, err := u.createAccount(ctx, req, accountScopes)
	if err != nil {
		return nil, err
	}

	u.log.Info("moderator registered: %s (master=%v)", user.Username, master)
	return user, nil
}

func (u *AuthUsecase) createAccount(ctx context.Context, req models.RegisterRequest, accountScopes []string) (*models.User, error) {
	if msg := validator.GetUsernameError(req.Username); msg != "" {
		return nil, apperrors.ValidationError(msg)
	}
	if msg := validator.GetPasswordError(req.Password); msg != "" {
		return nil, apperrors.ValidationError(msg)
	}
	if msg := validator.GetEmailError(req.Email); msg != "" {
		return nil, apperrors.ValidationError(msg)
	}
	if msg := validator.GetFullNameError(req.FullName); msg != "" {
		return nil, apperrors.ValidationError(msg)
	}

	taken, err := u.users.Exists(ctx, req.Username)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	if taken {
		return nil, apperrors.Conflict("Username is already taken")
	}

	digest, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password").WithCause(err)
	}

	user := &models.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: digest,
		Disabled: false,
		Scopes:   accountScopes,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, apperrors.StorageError(err)
	}
	return user, nil
}

// ============================================================
// Moderator assignment
// ============================================================

// AssignModerator appends the moderator scope to an existing account.
func (u *AuthUsecase) AssignModerator(ctx context.Context, req models.AssignModeratorRequest) error {
	if req.Username == "" {
		return apperrors.MissingField("username")
	}

	user, err := u.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return apperrors.StorageError(err)
	}
	if user == nil {
		return apperrors.NotFound("User")
	}

	updated := append(user.Scopes, scopes.Moderator)
	affected, err := u.users.UpdateScopes(ctx, req.Username, updated)
	if err != nil {
		return apperrors.StorageError(err)
	}
	if affected == 0 {
		return apperrors.Internal("Failed to update user scopes")
	}

	u.log.Info("moderator scope assigned to %s", req.Username)
	return nil
}

// ============================================================
// Password reset
// ============================================================

// ForgotPassword starts the OTP reset flow. When the user's last password
// change is inside the cooldown window the call succeeds without sending
// anything, so clients cannot distinguish it from a fresh request.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	if req.Username == "" {
		return apperrors.MissingField("username")
	}

	user, err := u.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return apperrors.StorageError(err)
	}
	if user == nil {
		return apperrors.NotFound("User")
	}

	existing, err := u.resets.FindByUserID(ctx, user.ID)
	if err != nil {
		return apperrors.StorageError(err)
	}
	if existing != nil && existing.LastPasswordChange != nil {
		if u.now().Sub(*existing.LastPasswordChange) < u.cfg.ResetCooldown {
			u.log.Info("reset request for %s suppressed by cooldown", user.Username)
			return nil
		}
	}

	code, err := otp.Generate(u.cfg.OTPLength)
	if err != nil {
		return apperrors.Internal("Failed to generate OTP").WithCause(err)
	}

	expiry := u.now().Add(u.cfg.OTPTTL)
	if err := u.resets.Upsert(ctx, user.ID, code, expiry); err != nil {
		return apperrors.StorageError(err)
	}

	if err := u.mailer.SendOTPEmail(ctx, user.Email, code); err != nil {
		return apperrors.TransportError(err)
	}

	u.log.Info("reset OTP sent for %s", user.Username)
	return nil
}

// VerifyOTP completes the reset flow for the authenticated user: on a
// matching, unexpired, unconsumed OTP it replaces the password and marks the
// request consumed. Every failure mode collapses into the same error so the
// response leaks nothing about which check failed.
func (u *AuthUsecase) VerifyOTP(ctx context.Context, username string, req models.VerifyOTPRequest) error {
	if req.OTP == "" {
		return apperrors.MissingField("otp")
	}
	if msg := validator.GetPasswordError(req.NewPassword); msg != "" {
		return apperrors.ValidationError(msg)
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return apperrors.StorageError(err)
	}
	if user == nil {
		return apperrors.InvalidOrExpiredOTP()
	}

	request, err := u.resets.FindByUserID(ctx, user.ID)
	if err != nil {
		return apperrors.StorageError(err)
	}
	if request == nil || request.PasswordChanged || request.IsDeleted {
		return apperrors.InvalidOrExpiredOTP()
	}
	if u.now().After(request.OTPExpiry) {
		return apperrors.InvalidOrExpiredOTP()
	}
	if subtle.ConstantTimeCompare([]byte(request.ResetOTP), []byte(req.OTP)) != 1 {
		return apperrors.InvalidOrExpiredOTP()
	}

	digest, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.Internal("Failed to hash password").WithCause(err)
	}
	if _, err := u.users.UpdatePassword(ctx, user.Username, digest); err != nil {
		return apperrors.StorageError(err)
	}
	if _, err := u.resets.MarkConsumed(ctx, user.ID, u.now()); err != nil {
		return apperrors.StorageError(err)
	}

	u.log.Info("password reset completed for %s", user.Username)
	return nil
}

// ============================================================
// User type
// ============================================================

// GetUserType reports the caller's effective role derived from token scopes.
func (u *AuthUsecase) GetUserType(username string, tokenScopes []string) *models.UserTypeResponse {
	return &models.UserTypeResponse{
		Username: username,
		UserType: string(scopes.UserTypeFromScopes(tokenScopes)),
	}
}

// ============================================================
// Admin bootstrap
// ============================================================

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
// Called once at startup; a missing admin password skips the bootstrap.
func (u *AuthUsecase) EnsureAdmin(ctx context.Context) error {
	if u.cfg.AdminPassword == "" {
		u.log.Warn("ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	taken, err := u.users.Exists(ctx, u.cfg.AdminUsername)
	if err != nil {
		return apperrors.StorageError(err)
	}
	if taken {
		return nil
	}

	digest, err := hash.HashPassword(u.cfg.AdminPassword)
	if err != nil {
		return apperrors.Internal("Failed to hash admin password").WithCause(err)
	}

	admin := &models.User{
		Username: u.cfg.AdminUsername,
		FullName: u.cfg.AdminFullName,
		Email:    u.cfg.AdminEmail,
		Password: digest,
		Scopes:   []string{scopes.AdminMaster, scopes.Admin, scopes.User},
	}
	if err := u.users.Create(ctx, admin); err != nil {
		return apperrors.StorageError(err)
	}

	u.log.Info("bootstrap admin account created: %s", admin.Username)
	return nil
}
