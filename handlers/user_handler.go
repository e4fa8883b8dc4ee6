package handlers

import (
	"net/http"

	"github.com/Faaz345/playsplit/middleware"
	"github.com/Faaz345/playsplit/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// MyMatches godoc
// @Summary Матчи текущего пользователя с его ролью и долей
// @Tags users
// @Produce json
// @Param status query string false "upcoming, completed или cancelled"
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы (до 50)"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /users/matches [get]
func (h *UserHandler) MyMatches(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	page, limit, err := pagination(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.MyMatchesInput{
		Status: r.URL.Query().Get("status"),
		Page:   page,
		Limit:  limit,
	}
	matches, p, err := h.userService.GetMyMatches(r.Context(), user, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Matches retrieved", jsonResponse{"matches": matches, "pagination": p})
}

// MyPayments godoc
// @Summary История платежей текущего пользователя
// @Tags users
// @Produce json
// @Param status query string false "Статус платежа"
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы (до 50)"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /users/payments [get]
func (h *UserHandler) MyPayments(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	page, limit, err := pagination(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.MyPaymentsInput{
		Status: r.URL.Query().Get("status"),
		Page:   page,
		Limit:  limit,
	}
	payments, p, err := h.userService.GetMyPayments(r.Context(), user, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Payments retrieved", jsonResponse{"payments": payments, "pagination": p})
}

// MyStats godoc
// @Summary Статистика текущего пользователя
// @Tags users
// @Produce json
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /users/stats [get]
func (h *UserHandler) MyStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	stats, err := h.userService.GetMyStats(r.Context(), user)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Stats retrieved", jsonResponse{"stats": stats})
}

// PublicProfile godoc
// @Summary Публичный профиль игрока
// @Tags users
// @Produce json
// @Param userID path string true "ID пользователя"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /users/{userID}/public [get]
func (h *UserHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := urlParam(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.userService.GetPublicProfile(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Profile retrieved", jsonResponse{"user": profile})
}

// Search godoc
// @Summary Поиск игроков по имени или email
// @Tags users
// @Produce json
// @Param q query string true "Запрос, минимум 2 символа"
// @Param limit query int false "До 20"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /users/search [get]
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	users, err := h.userService.SearchUsers(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Users retrieved", jsonResponse{"users": users})
}
