package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Faaz345/playsplit/middleware"
	"github.com/Faaz345/playsplit/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers godoc
// @Summary Пользователи с фильтрами
// @Tags admin
// @Produce json
// @Param search query string false "Имя или email"
// @Param role query string false "player или admin"
// @Param is_active query bool false "Активность"
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	isActive, err := queryBool(r, "is_active")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	q := r.URL.Query()
	input := services.AdminUsersInput{
		Search:   q.Get("search"),
		Role:     q.Get("role"),
		IsActive: isActive,
		Page:     page,
		Limit:    limit,
	}
	users, p, err := h.adminService.ListUsers(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Users retrieved", jsonResponse{"users": users, "pagination": p})
}

// UpdateUser godoc
// @Summary Сменить роль или активность пользователя
// @Tags admin
// @Accept json
// @Produce json
// @Param userID path string true "ID пользователя"
// @Param input body services.AdminUpdateUserInput true "Изменения"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /admin/users/{userID} [put]
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())
	if admin == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	userID, err := urlParam(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AdminUpdateUserInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.adminService.UpdateUser(r.Context(), admin, userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "User updated successfully", jsonResponse{"user": user})
}

// ListMatches godoc
// @Summary Все матчи с фильтрами
// @Tags admin
// @Produce json
// @Param status query string false "Статус"
// @Param date_from query string false "С даты"
// @Param date_to query string false "По дату"
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /admin/matches [get]
func (h *AdminHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	dateFrom, err := queryTime(r, "date_from")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	dateTo, err := queryTime(r, "date_to")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.AdminMatchesInput{
		Status:   r.URL.Query().Get("status"),
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Page:     page,
		Limit:    limit,
	}
	matches, p, err := h.adminService.ListMatches(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Matches retrieved", jsonResponse{"matches": matches, "pagination": p})
}

// CancelMatch godoc
// @Summary Принудительно отменить матч
// @Tags admin
// @Produce json
// @Param matchID path string true "Код матча"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /admin/matches/{matchID} [delete]
func (h *AdminHandler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())
	if admin == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	matchID, err := urlParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.adminService.ForceCancelMatch(r.Context(), admin, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Match cancelled by admin", jsonResponse{"match": view})
}

func paymentsInput(r *http.Request) (services.AdminPaymentsInput, error) {
	page, limit, err := pagination(r)
	if err != nil {
		return services.AdminPaymentsInput{}, err
	}
	dateFrom, err := queryTime(r, "date_from")
	if err != nil {
		return services.AdminPaymentsInput{}, err
	}
	dateTo, err := queryTime(r, "date_to")
	if err != nil {
		return services.AdminPaymentsInput{}, err
	}

	q := r.URL.Query()
	return services.AdminPaymentsInput{
		Status:   q.Get("status"),
		MatchID:  q.Get("match_id"),
		UserID:   q.Get("user_id"),
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Page:     page,
		Limit:    limit,
	}, nil
}

// ListPayments godoc
// @Summary Платежи с фильтрами
// @Tags admin
// @Produce json
// @Param status query string false "Статус"
// @Param match_id query string false "Код матча"
// @Param user_id query string false "ID пользователя"
// @Param date_from query string false "С даты"
// @Param date_to query string false "По дату"
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /admin/payments [get]
func (h *AdminHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	input, err := paymentsInput(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payments, p, err := h.adminService.ListPayments(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Payments retrieved", jsonResponse{"payments": payments, "pagination": p})
}

// ExportPayments godoc
// @Summary Выгрузка платежей в xlsx
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Статус"
// @Param match_id query string false "Код матча"
// @Param date_from query string false "С даты"
// @Param date_to query string false "По дату"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/payments/export [get]
func (h *AdminHandler) ExportPayments(w http.ResponseWriter, r *http.Request) {
	input, err := paymentsInput(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// буферизуем, чтобы ошибка выгрузки могла вернуться обычным JSON ответом
	var buf bytes.Buffer
	rows, err := h.adminService.ExportPayments(r.Context(), input, &buf)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	filename := "payments.xlsx"
	if input.Status != "" {
		filename = fmt.Sprintf("payments-%s.xlsx", input.Status)
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Export-Rows", strconv.Itoa(rows))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
