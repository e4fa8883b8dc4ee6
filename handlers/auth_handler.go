package handlers

import (
	"errors"
	"net/http"

	"github.com/Faaz345/playsplit/middleware"
	"github.com/Faaz345/playsplit/services"
	"github.com/Faaz345/playsplit/storage"
)

const avatarFormField = "avatar"

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary Регистрация пользователя по Firebase ID токену
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.RegisterInput true "Данные регистрации"
// @Success 201 {object} envelope "Пользователь создан"
// @Failure 400 {object} envelope "Ошибка валидации"
// @Failure 401 {object} envelope "Невалидный токен"
// @Failure 409 {object} envelope "Пользователь или email уже существует"
// @Failure 429 {object} envelope "Слишком много запросов"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, "User registered successfully", jsonResponse{"user": user})
}

// Login godoc
// @Summary Вход по Firebase ID токену
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.LoginInput true "ID токен"
// @Success 200 {object} envelope
// @Failure 401 {object} envelope
// @Failure 403 {object} envelope "Аккаунт деактивирован"
// @Failure 404 {object} envelope "Пользователь не зарегистрирован"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Login successful", jsonResponse{"user": user})
}

// GetProfile godoc
// @Summary Профиль текущего пользователя
// @Tags auth
// @Produce json
// @Success 200 {object} envelope
// @Failure 401 {object} envelope
// @Security BearerAuth
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	if current == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	user, err := h.authService.GetProfile(r.Context(), current.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Profile retrieved", jsonResponse{"user": user})
}

// UpdateProfile godoc
// @Summary Обновить имя, телефон и настройки
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.UpdateProfileInput true "Изменяемые поля"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Security BearerAuth
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	if current == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	var input services.UpdateProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), current, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Profile updated successfully", jsonResponse{"user": user})
}

// UploadAvatar godoc
// @Summary Загрузить аватар (JPEG, PNG, WebP до 5MB)
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Изображение"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 503 {object} envelope "Хранилище не настроено"
// @Security BearerAuth
// @Router /auth/profile/avatar [post]
func (h *AuthHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	if current == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	// запас на заголовки multipart
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxAvatarSize+64*1024)
	if err := r.ParseMultipartForm(storage.MaxAvatarSize); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			mapServiceErrorToHTTP(w, r, services.ErrAvatarTooLarge)
			return
		}
		badRequestResponse(w, r, errors.New("request must be multipart/form-data with an avatar file"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(avatarFormField)
	if err != nil {
		badRequestResponse(w, r, errors.New("avatar file is required"))
		return
	}
	defer file.Close()

	user, err := h.authService.UploadAvatar(r.Context(), current, header.Size, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Profile picture updated", jsonResponse{"user": user})
}

// Refresh godoc
// @Summary Проверить сессию и вернуть актуального пользователя
// @Tags auth
// @Produce json
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	if current == nil {
		unauthorizedResponse(w, r, "Invalid session")
		return
	}
	respond(w, r, http.StatusOK, "Session refreshed", jsonResponse{"user": current})
}

// Logout godoc
// @Summary Выход (токен удаляется на клиенте)
// @Tags auth
// @Produce json
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, "Logout successful", nil)
}

// DeleteAccount godoc
// @Summary Деактивировать аккаунт
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.DeactivateInput true "confirmation = DELETE"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 422 {object} envelope "Есть активные матчи"
// @Security BearerAuth
// @Router /auth/account [delete]
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromContext(r.Context())
	if current == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	var input services.DeactivateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.authService.DeactivateAccount(r.Context(), current, input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Account deactivated successfully", nil)
}
