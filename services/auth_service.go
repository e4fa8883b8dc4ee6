package services

//go:generate mockgen -source=auth_service.go -destination=mocks/mock_auth_service.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Faaz345/playsplit/apperr"
	"github.com/Faaz345/playsplit/clock"
	"github.com/Faaz345/playsplit/identity"
	"github.com/Faaz345/playsplit/models"
	"github.com/Faaz345/playsplit/repositories"
	"github.com/Faaz345/playsplit/storage"
	"github.com/Faaz345/playsplit/utils"
)

// DeleteConfirmation must be sent verbatim to deactivate an account.
const DeleteConfirmation = "DELETE"

const sniffLen = 512

type AuthService interface {
	VerifyToken(ctx context.Context, token string) (*identity.Claims, error)
	// CurrentUser resolves verified claims to an active local user.
	CurrentUser(ctx context.Context, claims *identity.Claims) (*models.User, error)
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, input UpdateProfileInput) (*models.User, error)
	UploadAvatar(ctx context.Context, user *models.User, size int64, file io.Reader) (*models.User, error)
	DeactivateAccount(ctx context.Context, user *models.User, input DeactivateInput) error
}

type RegisterInput struct {
	IDToken      string  `json:"id_token" validate:"required"`
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	AuthProvider string  `json:"auth_provider,omitempty" validate:"omitempty,oneof=google email"`
}

type LoginInput struct {
	IDToken string `json:"id_token" validate:"required"`
}

type PreferencesInput struct {
	Notifications          *models.NotificationPreferences `json:"notifications,omitempty"`
	PreferredPaymentMethod *string                         `json:"preferred_payment_method,omitempty" validate:"omitempty,oneof=upi cash card"`
}

type UpdateProfileInput struct {
	Name        *string           `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone       *string           `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Preferences *PreferencesInput `json:"preferences,omitempty"`
}

type DeactivateInput struct {
	Confirmation string `json:"confirmation" validate:"required"`
}

type authService struct {
	verifier  identity.Verifier
	userRepo  repositories.UserRepository
	matchRepo repositories.MatchRepository
	uploader  storage.FileUploader
	clock     clock.Clock
	logger    *slog.Logger
}

// NewAuthService: uploader может быть nil, тогда загрузка аватаров выключена.
func NewAuthService(
	verifier identity.Verifier,
	userRepo repositories.UserRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	clk clock.Clock,
	logger *slog.Logger,
) AuthService {
	return &authService{
		verifier:  verifier,
		userRepo:  userRepo,
		matchRepo: matchRepo,
		uploader:  uploader,
		clock:     clk,
		logger:    logger,
	}
}

func (s *authService) VerifyToken(ctx context.Context, token string) (*identity.Claims, error) {
	claims, err := s.verifier.Verify(ctx, token)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, identity.ErrTokenMissing):
		return nil, apperr.Authentication("Access token required")
	case errors.Is(err, identity.ErrTokenExpired):
		return nil, apperr.Authentication("Token expired")
	case errors.Is(err, identity.ErrTokenInvalid):
		return nil, ErrInvalidToken
	default:
		return nil, apperr.Infrastructure(err, "Failed to verify token")
	}
}

func (s *authService) CurrentUser(ctx context.Context, claims *identity.Claims) (*models.User, error) {
	user, err := s.userRepo.GetByFirebaseUID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperr.Authentication("User not found in database")
		}
		return nil, handleUserRepoError(err, "load current user")
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	claims, err := s.VerifyToken(ctx, input.IDToken)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByFirebaseUID(ctx, claims.UID); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, handleUserRepoError(err, "check existing user")
	}

	email := input.Email
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, handleUserRepoError(err, "check existing email")
	}

	provider := models.AuthProvider(input.AuthProvider)
	if provider == "" {
		provider = providerFromClaims(claims)
	}

	user := &models.User{
		ID:           utils.NewUserID(),
		FirebaseUID:  claims.UID,
		Name:         utils.SanitizeText(input.Name),
		Email:        email,
		Phone:        utils.SanitizeTextPtr(input.Phone),
		Role:         models.RolePlayer,
		AuthProvider: provider,
		IsActive:     true,
		Preferences:  models.DefaultUserPreferences(),
	}
	if claims.Picture != "" {
		picture := claims.Picture
		user.ProfilePicture = &picture
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, handleUserRepoError(err, "create user")
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("provider", string(user.AuthProvider)))
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	claims, err := s.VerifyToken(ctx, input.IDToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByFirebaseUID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, handleUserRepoError(err, "load user")
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	// Аватар из провайдера берем, только если свой не загружен.
	changed := false
	if claims.Picture != "" && user.ProfilePicture == nil {
		picture := claims.Picture
		user.ProfilePicture = &picture
		changed = true
	}
	if changed {
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, handleUserRepoError(err, "sync profile")
		}
	}

	now := s.clock.Now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WarnContext(ctx, "failed to record last login",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	} else {
		user.LastLogin = &now
	}

	return user, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, handleUserRepoError(err, "get profile")
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, user *models.User, input UpdateProfileInput) (*models.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = utils.SanitizeText(*input.Name)
	}
	if input.Phone != nil {
		user.Phone = utils.SanitizeTextPtr(input.Phone)
	}
	if p := input.Preferences; p != nil {
		if p.Notifications != nil {
			user.Preferences.Notifications = *p.Notifications
		}
		if p.PreferredPaymentMethod != nil {
			user.Preferences.PreferredPaymentMethod = models.ParsePaymentMethod(*p.PreferredPaymentMethod)
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, handleUserRepoError(err, "update profile")
	}
	return user, nil
}

func (s *authService) UploadAvatar(ctx context.Context, user *models.User, size int64, file io.Reader) (*models.User, error) {
	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}
	if size > storage.MaxAvatarSize {
		return nil, ErrAvatarTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, apperr.Validation("Could not read uploaded file", map[string]string{"avatar": "unreadable"})
	}
	head = head[:n]

	contentType, ext, err := storage.DetectImageType(head)
	if err != nil {
		return nil, ErrAvatarType
	}

	key := storage.AvatarKey(user.ID, ext)
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), file), storage.MaxAvatarSize)
	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return nil, ErrStorageDisabled
		}
		return nil, apperr.Infrastructure(err, "Failed to upload profile picture")
	}

	previous := derefString(user.ProfilePicture)
	url := s.uploader.GetPublicURL(key)
	user.ProfilePicture = &url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, handleUserRepoError(err, "save profile picture")
	}

	if oldKey := s.uploader.KeyFromURL(previous); oldKey != "" && oldKey != key {
		if err := s.uploader.Delete(ctx, oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous avatar",
				slog.String("user_id", user.ID),
				slog.String("key", oldKey),
				slog.Any("error", err))
		}
	}

	return user, nil
}

// DeactivateAccount отключает аккаунт и освобождает email для повторной регистрации.
func (s *authService) DeactivateAccount(ctx context.Context, user *models.User, input DeactivateInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	if input.Confirmation != DeleteConfirmation {
		return apperr.Validation(`Please type "DELETE" to confirm`, map[string]string{
			"confirmation": "must be DELETE",
		})
	}

	active, err := s.matchRepo.Count(ctx, repositories.ListMatchesFilter{
		OrganizerID: &user.ID,
		Statuses: []models.MatchStatus{
			models.MatchStatusDraft,
			models.MatchStatusOpen,
			models.MatchStatusStarted,
		},
	})
	if err != nil {
		return handleMatchRepoError(err, "check active matches")
	}
	if active > 0 {
		return apperr.BusinessRule("Cannot delete account while you organize active matches. Cancel or complete them first.")
	}

	user.IsActive = false
	if !strings.HasPrefix(user.Email, "deleted_") {
		user.Email = fmt.Sprintf("deleted_%d_%s", s.clock.Now().Unix(), user.Email)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return handleUserRepoError(err, "deactivate account")
	}

	s.logger.InfoContext(ctx, "account deactivated", slog.String("user_id", user.ID))
	return nil
}

func providerFromClaims(claims *identity.Claims) models.AuthProvider {
	if claims.Provider == "google.com" {
		return models.AuthProviderGoogle
	}
	return models.AuthProviderEmail
}
