package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"rewards/constants"
	apperrors "rewards/errors"
	"rewards/models"
	"rewards/services/logger"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

const (
	referralCodeLength   = 8
	referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	referralCodeAttempts = 5
)

var usernameStrip = regexp.MustCompile(`[^a-z0-9_]+`)

// GoogleTokenVerifier validates a Google ID token for the given audience.
type GoogleTokenVerifier func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	ReferralCode string
}

type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

type ReferralSummary struct {
	ReferralCode  string
	ReferredUsers int64
	TotalBonus    decimal.Decimal
	Recent        []models.ReferralEarning
}

type AuthService struct {
	db             *gorm.DB
	logger         logger.Logger
	tokens         *TokenService
	bcryptCost     int
	googleClientID string
	verifyGoogle   GoogleTokenVerifier
}

type AuthServiceOptions struct {
	DB             *gorm.DB
	Logger         logger.Logger
	Tokens         *TokenService
	BcryptCost     int
	GoogleClientID string
	VerifyGoogle   GoogleTokenVerifier
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	verify := opts.VerifyGoogle
	if verify == nil {
		verify = idtoken.Validate
	}
	return &AuthService{
		db:             opts.DB,
		logger:         opts.Logger,
		tokens:         opts.Tokens,
		bcryptCost:     cost,
		googleClientID: opts.GoogleClientID,
		verifyGoogle:   verify,
	}
}

// HashPassword băm mật khẩu bằng bcrypt
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func generateReferralCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(referralCodeAlphabet)))
	for i := 0; i < referralCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(referralCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

func (s *AuthService) uniqueReferralCode(db *gorm.DB) (string, error) {
	for i := 0; i < referralCodeAttempts; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.User{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique referral code after %d attempts", referralCodeAttempts)
}

// Register creates an account, linking it to a referrer when a code is given.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, apperrors.Validation("username, email and password are required")
	}

	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&existing).Error; err != nil {
		return nil, apperrors.DB("failed to check existing users", err)
	}
	if existing > 0 {
		return nil, apperrors.NewAppError(apperrors.ErrCodeUserExists, "Username or email already registered", nil)
	}

	var referredBy *uint
	if code := strings.ToUpper(strings.TrimSpace(in.ReferralCode)); code != "" {
		var referrer models.User
		err := db.Select("id").Where("referral_code = ?", code).First(&referrer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidReferral
		}
		if err != nil {
			return nil, apperrors.DB("failed to look up referral code", err)
		}
		referredBy = &referrer.ID
	}

	user, err := s.createUser(db, username, email, in.Password, referredBy)
	if err != nil {
		return nil, err
	}
	s.logger.Info("✅ registered user %d (%s)", user.ID, user.Username)
	return s.issue(user)
}

func (s *AuthService) createUser(db *gorm.DB, username, email, password string, referredBy *uint) (*models.User, error) {
	hashed, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	code, err := s.uniqueReferralCode(db)
	if err != nil {
		return nil, apperrors.DB("failed to generate referral code", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		Password:     hashed,
		Balance:      decimal.Zero,
		TotalEarned:  decimal.Zero,
		ReferralCode: code,
		ReferredBy:   referredBy,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeUserExists, "Username or email already registered", err)
		}
		return nil, apperrors.DB("failed to create user", err)
	}
	return &user, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

// Login accepts a username or an email as identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.DB("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(&user)
}

// LoginWithGoogle finds or creates the account matching a verified Google ID token.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.googleClientID == "" {
		return nil, apperrors.Validation("Google sign-in is not enabled")
	}
	payload, err := s.verifyGoogle(ctx, idToken, s.googleClientID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Invalid Google token", err)
	}

	email, _ := payload.Claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Google account email is not verified", nil)
	}

	db := s.db.WithContext(ctx)
	var user models.User
	err = db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return s.issue(&user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.DB("failed to load user", err)
	}

	name, _ := payload.Claims["name"].(string)
	username, err := s.deriveUsername(db, name, email)
	if err != nil {
		return nil, apperrors.DB("failed to derive username", err)
	}
	password, err := generateReferralCode()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	created, err := s.createUser(db, username, email, password+password, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("✅ registered Google user %d (%s)", created.ID, created.Username)
	return s.issue(created)
}

// deriveUsername turns a display name such as "Nguyễn Văn An" into "nguyen_van_an",
// suffixing digits until it is free.
func (s *AuthService) deriveUsername(db *gorm.DB, name, email string) (string, error) {
	base := asciiFold(name)
	if base == "" {
		base = asciiFold(strings.SplitN(email, "@", 2)[0])
	}
	base = strings.Trim(usernameStrip.ReplaceAllString(strings.ReplaceAll(base, " ", "_"), ""), "_")
	if len(base) < 3 {
		base = "user" + base
	}
	if len(base) > 24 {
		base = base[:24]
	}

	candidate := base
	for i := 0; i < 10; i++ {
		var count int64
		if err := db.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		n, err := rand.Int(rand.Reader, big.NewInt(10000))
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s%04d", base, n.Int64())
	}
	return "", fmt.Errorf("no free username for %q", base)
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.DB("failed to load user", err)
	}
	return &user, nil
}

// UpdatePayoutEmail sets the saved PayPal destination. An empty email clears it.
func (s *AuthService) UpdatePayoutEmail(ctx context.Context, userID uint, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("paypal_email", email)
	if res.Error != nil {
		return nil, apperrors.DB("failed to update payout email", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrUserNotFound
	}
	return s.Profile(ctx, userID)
}

// Referrals summarises what a user has earned from the people they referred.
func (s *AuthService) Referrals(ctx context.Context, userID uint, recent int) (*ReferralSummary, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if recent <= 0 || recent > maxPageLimit {
		recent = 20
	}

	db := s.db.WithContext(ctx)
	summary := &ReferralSummary{ReferralCode: user.ReferralCode}

	if err := db.Model(&models.User{}).Where("referred_by = ?", userID).Count(&summary.ReferredUsers).Error; err != nil {
		return nil, apperrors.DB("failed to count referred users", err)
	}

	var total struct {
		Amount decimal.Decimal
	}
	if err := db.Model(&models.ReferralEarning{}).
		Select("COALESCE(SUM(amount), 0) AS amount").
		Where("referrer_id = ?", userID).
		Scan(&total).Error; err != nil {
		return nil, apperrors.DB("failed to sum referral earnings", err)
	}
	summary.TotalBonus = total.Amount

	if err := db.Where("referrer_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(recent).
		Find(&summary.Recent).Error; err != nil {
		return nil, apperrors.DB("failed to load referral earnings", err)
	}
	return summary, nil
}
