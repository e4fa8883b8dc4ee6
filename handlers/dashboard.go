package handlers

import (
	"errors"
	"net/http"
)

// periods: короткие обозначения периода аналитики.
var periods = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
	"1y":  365,
}

// Dashboard godoc
// @Summary Сводка для админки
// @Tags admin
// @Produce json
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetDashboard(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "Dashboard data retrieved", stats)
}

// Analytics godoc
// @Summary Выручка, матчи и регистрации по дням
// @Tags admin
// @Produce json
// @Param period query string false "7d, 30d, 90d или 1y"
// @Param days query int false "Произвольное число дней (до 365)"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /admin/analytics [get]
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if period := r.URL.Query().Get("period"); period != "" && days == 0 {
		var ok bool
		if days, ok = periods[period]; !ok {
			badRequestResponse(w, r, errors.New("period must be one of 7d, 30d, 90d, 1y"))
			return
		}
	}

	analytics, err := h.adminService.GetAnalytics(r.Context(), days)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "Analytics retrieved", analytics)
}
