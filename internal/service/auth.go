// Package service contains the business logic layer of the application.
//
// Handlers parse HTTP and map errors; services enforce the rules; the
// repository interfaces do the storage. Services accept plain values and a
// context, return domain errors from internal/apperror, and know nothing
// about HTTP.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/auth"
	"github.com/sakif/kickstart-blog/internal/mail"
	"github.com/sakif/kickstart-blog/internal/model"
	"github.com/sakif/kickstart-blog/internal/repository"
)

// AuthService orchestrates the signup state machine and login.
//
// ACCOUNT STATES:
//
//	NoAccount → PendingVerification → Verified
//
// RequestOTP creates the pending row and mails the code; VerifyOTP moves the
// row to verified (clears the otp columns) and issues the first session
// claim; Login refuses pending accounts and issues claims for verified ones.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	mailer    mail.Sender
	logger    *slog.Logger

	// now is time.Now in production; tests override it to step past the
	// OTP expiry window without sleeping.
	now func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	mailer mail.Sender,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		mailer:    mailer,
		logger:    logger,
		now:       time.Now,
	}
}

// SignupInput carries the profile fields collected by the signup form.
type SignupInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	DateOfBirth  string
	MobileNumber string
	AvatarURL    string // already uploaded to the media host, may be empty
	AvatarID     string
}

// AuthResult bundles the issued session claim with the user it asserts, so
// the handler can respond with both in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// RequestOTP starts a signup: hashes the password, generates a 6-digit code
// with a 5-minute expiry, persists the row as pending, and mails the code.
//
// Any existing row with this email — verified or an abandoned pending one —
// is a conflict. There is deliberately no resend path for stuck pending
// rows; the caller has to wait for nothing (the row occupies the email until
// someone clears it out of band).
//
// If mail delivery fails AFTER the row is persisted, the row stays — the
// operation reports the failure but does not roll back, so a retried signup
// with the same email will conflict. Known gap, kept as-is.
func (s *AuthService) RequestOTP(ctx context.Context, in SignupInput) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if in.Password == "" {
		return apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generating otp: %w", err)
	}

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)

	user := &model.User{
		FirstName:    firstName,
		LastName:     lastName,
		Name:         strings.TrimSpace(firstName + " " + lastName),
		Email:        email,
		PasswordHash: hash,
		DateOfBirth:  in.DateOfBirth,
		MobileNumber: in.MobileNumber,
		AvatarURL:    in.AvatarURL,
		AvatarID:     in.AvatarID,
		Role:         model.RoleAuthor,
		OTP:          code,
		OTPExpiresAt: s.now().Add(auth.OTPTTL),
	}

	if err := s.users.CreatePending(ctx, user); err != nil {
		return err
	}

	s.logger.Info("signup pending", slog.String("user_id", user.ID))

	if err := s.mailer.Send(ctx, mail.OTPMessage(email, code)); err != nil {
		// The pending row already exists and stays. Surface the failure so
		// the caller knows no code is coming.
		s.logger.Error("failed to send otp",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("sending otp: %w", err)
	}

	return nil
}

// VerifyOTP completes a signup. On success the otp columns are cleared
// (transition to Verified) and a session claim is issued immediately, so the
// user lands logged in.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || code == "" {
		return nil, apperror.ValidationFailed("otp", "email and OTP are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !user.Pending() {
		// Already verified: nothing to verify, and the code on file is gone.
		return nil, apperror.Conflict("account is already verified")
	}
	if user.OTP != code {
		return nil, apperror.ValidationFailed("otp", "invalid OTP")
	}
	if s.now().After(user.OTPExpiresAt) {
		return nil, apperror.ValidationFailed("otp", "OTP expired")
	}

	if err := s.users.ClearOTP(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("clearing otp: %w", err)
	}
	user.OTP = ""
	user.OTPExpiresAt = time.Time{}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("signup verified", slog.String("user_id", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates a verified account and issues a session claim.
//
// Unknown email and wrong password produce the SAME error so a caller cannot
// probe which addresses have accounts. A pending account gets its own error —
// the frontend routes that user to the verify screen instead.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("credentials", "email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if user.Pending() {
		return nil, apperror.Conflict("please verify OTP first")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("login", slog.String("user_id", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// Me returns the authenticated user's profile.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
