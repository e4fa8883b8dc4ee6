package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Faaz345/playsplit/apperr"
	clockmocks "github.com/Faaz345/playsplit/clock/mocks"
	"github.com/Faaz345/playsplit/identity"
	identitymocks "github.com/Faaz345/playsplit/identity/mocks"
	"github.com/Faaz345/playsplit/models"
	"github.com/Faaz345/playsplit/repositories"
	repomocks "github.com/Faaz345/playsplit/repositories/mocks"
	"github.com/Faaz345/playsplit/services"
	"github.com/Faaz345/playsplit/storage"
	storagemocks "github.com/Faaz345/playsplit/storage/mocks"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	verifier  *identitymocks.MockVerifier
	userRepo  *repomocks.MockUserRepository
	matchRepo *repomocks.MockMatchRepository
	uploader  *storagemocks.MockFileUploader
	now       time.Time
	claims    *identity.Claims
	service   services.AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.verifier = identitymocks.NewMockVerifier(s.ctrl)
	s.userRepo = repomocks.NewMockUserRepository(s.ctrl)
	s.matchRepo = repomocks.NewMockMatchRepository(s.ctrl)
	s.uploader = storagemocks.NewMockFileUploader(s.ctrl)

	s.now = time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	clk := clockmocks.NewMockClock(s.ctrl)
	clk.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	s.claims = &identity.Claims{
		UID:      "fb-uid-1",
		Email:    "asha@example.com",
		Name:     "Asha",
		Picture:  "https://lh3.googleusercontent.com/asha.png",
		Provider: "google.com",
	}
	s.service = services.NewAuthService(s.verifier, s.userRepo, s.matchRepo, s.uploader, clk, discardLogger())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) existingUser() *models.User {
	return &models.User{
		ID:           "user-1",
		FirebaseUID:  s.claims.UID,
		Name:         "Asha",
		Email:        "asha@example.com",
		Role:         models.RolePlayer,
		AuthProvider: models.AuthProviderGoogle,
		IsActive:     true,
		Preferences:  models.DefaultUserPreferences(),
	}
}

func (s *AuthServiceTestSuite) TestVerifyTokenMapsIdentityErrors() {
	ctx := context.Background()
	cases := []struct {
		err  error
		kind apperr.Kind
	}{
		{identity.ErrTokenMissing, apperr.KindAuthentication},
		{identity.ErrTokenExpired, apperr.KindAuthentication},
		{fmt.Errorf("%w: bad kid", identity.ErrTokenInvalid), apperr.KindAuthentication},
		{errors.New("failed to fetch signing certificates"), apperr.KindInfrastructure},
	}
	for _, tc := range cases {
		s.verifier.EXPECT().Verify(ctx, "tok").Return(nil, tc.err)
		_, err := s.service.VerifyToken(ctx, "tok")
		s.Equal(tc.kind, apperr.KindOf(err), tc.err.Error())
	}
}

func (s *AuthServiceTestSuite) TestRegisterCreatesPlayer() {
	ctx := context.Background()
	s.verifier.EXPECT().Verify(ctx, "tok").Return(s.claims, nil)
	s.userRepo.EXPECT().GetByFirebaseUID(ctx, "fb-uid-1").Return(nil, repositories.ErrUserNotFound)
	s.userRepo.EXPECT().GetByEmail(ctx, "asha@example.com").Return(nil, repositories.ErrUserNotFound)
	s.userRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	user, err := s.service.Register(ctx, services.RegisterInput{
		IDToken: "tok",
		Name:    "  Asha ",
		Email:   "  Asha@Example.com ",
	})
	s.Require().NoError(err)
	s.Equal("Asha", user.Name)
	s.Equal("asha@example.com", user.Email)
	s.Equal(models.RolePlayer, user.Role)
	s.Equal(models.AuthProviderGoogle, user.AuthProvider)
	s.True(user.IsActive)
	s.Require().NotNil(user.ProfilePicture)
	s.Equal(s.claims.Picture, *user.ProfilePicture)
	s.Equal(models.PaymentMethodUPI, user.Preferences.PreferredPaymentMethod)
}

func (s *AuthServiceTestSuite) TestRegisterDuplicates() {
	ctx := context.Background()
	input := services.RegisterInput{IDToken: "tok", Name: "Asha", Email: "asha@example.com"}

	s.verifier.EXPECT().Verify(ctx, "tok").Return(s.claims, nil).Times(2)
	s.userRepo.EXPECT().GetByFirebaseUID(ctx, "fb-uid-1").Return(s.existingUser(), nil)
	_, err := s.service.Register(ctx, input)
	s.ErrorIs(err, services.ErrUserAlreadyExists)

	s.userRepo.EXPECT().GetByFirebaseUID(ctx, "fb-uid-1").Return(nil, repositories.ErrUserNotFound)
	s.userRepo.EXPECT().GetByEmail(ctx, "asha@example.com").Return(s.existingUser(), nil)
	_, err = s.service.Register(ctx, input)
	s.ErrorIs(err, services.ErrEmailTaken)
	s.Equal(apperr.KindDuplicate, apperr.KindOf(err))
}

func (s *AuthServiceTestSuite) TestRegisterValidatesBeforeVerifying() {
	_, err := s.service.Register(context.Background(), services.RegisterInput{IDToken: "tok", Name: "A", Email: "nope"})
	appErr, ok := apperr.As(err)
	s.Require().True(ok)
	s.Equal(apperr.KindValidation, appErr.Kind)
	s.Contains(appErr.Fields, "name")
	s.Contains(appErr.Fields, "email")
}

func (s *AuthServiceTestSuite) TestLogin() {
	ctx := context.Background()

	s.Run("unregistered", func() {
		s.verifier.EXPECT().Verify(ctx, "tok").Return(s.claims, nil)
		s.userRepo.EXPECT().GetByFirebaseUID(ctx, "fb-uid-1").Return(nil, repositories.ErrUserNotFound)
		_, err := s.service.Login(ctx, services.LoginInput{IDToken: "tok"})
		s.ErrorIs(err, services.ErrNotRegistered)
	})

	s.Run("deactivated", func() {
		u := s.existingUser()
		u.IsActive = false
		s.verifier.EXPECT().Verify(ctx, "tok").Return(s.claims, nil)
		s.userRepo.EXPECT().GetByFirebaseUID(ctx, "fb-uid-1").Return(u, nil)
		_, err := s.service.Login(ctx, services.LoginInput{IDToken: "tok"})
		s.ErrorIs(err, services.ErrAccountInactive)
	})

	s.Run("records last login and fills missing avatar", func() {
		u := s.existingUser()
		s.verifier.EXPECT().Verify(ctx, "tok").Return(s.claims, nil)
		s.userRepo.EXPECT().GetByFirebaseUID(ctx, "fb-uid-1").Return(u, nil)
		s.userRepo.EXPECT().Update(ctx, u).Return(nil)
		s.userRepo.EXPECT().TouchLastLogin(ctx, u.ID, s.now).Return(nil)

		got, err := s.service.Login(ctx, services.LoginInput{IDToken: "tok"})
		s.Require().NoError(err)
		s.Require().NotNil(got.LastLogin)
		s.True(got.LastLogin.Equal(s.now))
		s.Equal(s.claims.Picture, *got.ProfilePicture)
	})
}

func (s *AuthServiceTestSuite) TestUpdateProfile() {
	ctx := context.Background()
	u := s.existingUser()
	name := "Asha K"
	method := "card"
	s.userRepo.EXPECT().Update(ctx, u).Return(nil)

	got, err := s.service.UpdateProfile(ctx, u, services.UpdateProfileInput{
		Name: &name,
		Preferences: &services.PreferencesInput{
			Notifications:          &models.NotificationPreferences{Email: false, Push: true},
			PreferredPaymentMethod: &method,
		},
	})
	s.Require().NoError(err)
	s.Equal("Asha K", got.Name)
	s.False(got.Preferences.Notifications.Email)
	s.Equal(models.PaymentMethodCard, got.Preferences.PreferredPaymentMethod)
}

func (s *AuthServiceTestSuite) TestUploadAvatarReplacesPrevious() {
	ctx := context.Background()
	u := s.existingUser()
	old := "https://cdn.playsplit.test/avatars/user-1/old.png"
	u.ProfilePicture = &old

	var uploadedKey string
	s.uploader.EXPECT().Upload(ctx, gomock.Any(), "image/png", gomock.Any()).
		DoAndReturn(func(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
			uploadedKey = key
			body, err := io.ReadAll(r)
			s.Require().NoError(err)
			s.True(bytes.HasPrefix(body, pngHeader))
			return &storage.UploadResult{Key: key}, nil
		})
	s.uploader.EXPECT().GetPublicURL(gomock.Any()).DoAndReturn(func(key string) string {
		return "https://cdn.playsplit.test/" + key
	})
	s.userRepo.EXPECT().Update(ctx, u).Return(nil)
	s.uploader.EXPECT().KeyFromURL(old).Return("avatars/user-1/old.png")
	s.uploader.EXPECT().Delete(ctx, "avatars/user-1/old.png").Return(errors.New("transient"))

	file := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 1024)...)
	got, err := s.service.UploadAvatar(ctx, u, int64(len(file)), bytes.NewReader(file))
	s.Require().NoError(err)
	s.True(strings.HasPrefix(uploadedKey, "avatars/user-1/"))
	s.True(strings.HasSuffix(uploadedKey, ".png"))
	s.Equal("https://cdn.playsplit.test/"+uploadedKey, *got.ProfilePicture)
}

func (s *AuthServiceTestSuite) TestUploadAvatarRejections() {
	ctx := context.Background()
	u := s.existingUser()

	_, err := s.service.UploadAvatar(ctx, u, storage.MaxAvatarSize+1, bytes.NewReader(pngHeader))
	s.ErrorIs(err, services.ErrAvatarTooLarge)

	_, err = s.service.UploadAvatar(ctx, u, 20, strings.NewReader("GIF89a not allowed here"))
	s.ErrorIs(err, services.ErrAvatarType)

	clk := clockmocks.NewMockClock(s.ctrl)
	noStorage := services.NewAuthService(s.verifier, s.userRepo, s.matchRepo, nil, clk, discardLogger())
	_, err = noStorage.UploadAvatar(ctx, u, 10, bytes.NewReader(pngHeader))
	s.ErrorIs(err, services.ErrStorageDisabled)
}

func (s *AuthServiceTestSuite) TestDeactivateAccount() {
	ctx := context.Background()

	s.Run("needs confirmation", func() {
		err := s.service.DeactivateAccount(ctx, s.existingUser(), services.DeactivateInput{Confirmation: "delete"})
		s.Equal(apperr.KindValidation, apperr.KindOf(err))
	})

	s.Run("blocked by active matches", func() {
		s.matchRepo.EXPECT().Count(ctx, gomock.Any()).Return(2, nil)
		err := s.service.DeactivateAccount(ctx, s.existingUser(), services.DeactivateInput{Confirmation: "DELETE"})
		s.Equal(apperr.KindBusinessRule, apperr.KindOf(err))
	})

	s.Run("frees the email", func() {
		u := s.existingUser()
		s.matchRepo.EXPECT().Count(ctx, gomock.Any()).Return(0, nil)
		s.userRepo.EXPECT().Update(ctx, u).Return(nil)

		err := s.service.DeactivateAccount(ctx, u, services.DeactivateInput{Confirmation: "DELETE"})
		s.Require().NoError(err)
		s.False(u.IsActive)
		s.Equal(fmt.Sprintf("deleted_%d_asha@example.com", s.now.Unix()), u.Email)
	})
}
