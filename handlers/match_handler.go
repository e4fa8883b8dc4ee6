package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Faaz345/playsplit/middleware"
	"github.com/Faaz345/playsplit/models"
	"github.com/Faaz345/playsplit/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// matchAction: общий вид операций над матчем по id из URL.
type matchAction func(r *http.Request, user *models.User, matchID string) (*models.MatchView, error)

func (h *MatchHandler) handleAction(w http.ResponseWriter, r *http.Request, message string, action matchAction) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	matchID, err := urlParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := action(r, user, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, message, jsonResponse{"match": view})
}

// CreateMatch godoc
// @Summary Создать матч (обычный или быстрый)
// @Description При is_quick_match=true матч сразу стартует, стоимость задается после игры.
// @Tags matches
// @Accept json
// @Produce json
// @Param input body services.RegularMatchInput true "Параметры матча"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Security BearerAuth
// @Router /matches [post]
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(body) == 0 {
		badRequestResponse(w, r, errEmptyBody)
		return
	}

	var kind struct {
		IsQuickMatch bool `json:"is_quick_match"`
	}
	if err := json.Unmarshal(body, &kind); err != nil {
		badRequestResponse(w, r, describeJSONError(err))
		return
	}

	if kind.IsQuickMatch {
		var input services.QuickMatchInput
		if err := json.Unmarshal(body, &input); err != nil {
			badRequestResponse(w, r, describeJSONError(err))
			return
		}
		view, err := h.matchService.CreateQuickMatch(r.Context(), user, input)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		respond(w, r, http.StatusCreated, "Quick match created successfully", jsonResponse{"match": view})
		return
	}

	var input services.RegularMatchInput
	if err := json.Unmarshal(body, &input); err != nil {
		badRequestResponse(w, r, describeJSONError(err))
		return
	}
	view, err := h.matchService.CreateRegularMatch(r.Context(), user, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, "Match created successfully", jsonResponse{"match": view})
}

// ListMatches godoc
// @Summary Открытые и идущие предстоящие матчи
// @Tags matches
// @Produce json
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} envelope
// @Router /matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, p, err := h.matchService.ListUpcoming(r.Context(), page, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Matches retrieved", jsonResponse{"matches": matches, "pagination": p})
}

// GetMatch godoc
// @Summary Матч по коду
// @Tags matches
// @Produce json
// @Param matchID path string true "Код матча"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := urlParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Match retrieved", jsonResponse{"match": view})
}

// UpdateMatch godoc
// @Summary Изменить матч (только draft/open, организатор или админ)
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path string true "Код матча"
// @Param input body services.UpdateMatchInput true "Изменяемые поля"
// @Success 200 {object} envelope
// @Failure 403 {object} envelope
// @Failure 422 {object} envelope
// @Security BearerAuth
// @Router /matches/{matchID} [put]
func (h *MatchHandler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.handleAction(w, r, "Match updated successfully", func(r *http.Request, user *models.User, matchID string) (*models.MatchView, error) {
		return h.matchService.UpdateMatch(r.Context(), user, matchID, input)
	})
}

// CancelMatch godoc
// @Summary Отменить матч
// @Tags matches
// @Produce json
// @Param matchID path string true "Код матча"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /matches/{matchID} [delete]
func (h *MatchHandler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, "Match cancelled successfully", func(r *http.Request, user *models.User, matchID string) (*models.MatchView, error) {
		return h.matchService.CancelMatch(r.Context(), user, matchID)
	})
}

// PublishMatch godoc
// @Summary Опубликовать черновик
// @Tags matches
// @Produce json
// @Param matchID path string true "Код матча"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /matches/{matchID}/publish [post]
func (h *MatchHandler) PublishMatch(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, "Match published successfully", func(r *http.Request, user *models.User, matchID string) (*models.MatchView, error) {
		return h.matchService.PublishMatch(r.Context(), user, matchID)
	})
}

// JoinMatch godoc
// @Summary Присоединиться к матчу
// @Tags matches
// @Produce json
// @Param matchID path string true "Код матча"
// @Success 200 {object} envelope
// @Failure 409 {object} envelope "Матч изменен параллельно"
// @Failure 422 {object} envelope "Матч заполнен или закрыт"
// @Security BearerAuth
// @Router /matches/{matchID}/join [post]
func (h *MatchHandler) JoinMatch(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, "Successfully joined the match", func(r *http.Request, user *models.User, matchID string) (*models.MatchView, error) {
		return h.matchService.JoinMatch(r.Context(), user, matchID)
	})
}

// LeaveMatch godoc
// @Summary Покинуть матч
// @Tags matches
// @Produce json
// @Param matchID path string true "Код матча"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /matches/{matchID}/leave [post]
func (h *MatchHandler) LeaveMatch(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, "Successfully left the match", func(r *http.Request, user *models.User, matchID string) (*models.MatchView, error) {
		return h.matchService.LeaveMatch(r.Context(), user, matchID)
	})
}

// StartMatch godoc
// @Summary Начать матч
// @Tags matches
// @Produce json
// @Param matchID path string true "Код матча"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /matches/{matchID}/start [post]
func (h *MatchHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, "Match started successfully", func(r *http.Request, user *models.User, matchID string) (*models.MatchView, error) {
		return h.matchService.StartMatch(r.Context(), user, matchID)
	})
}

// CompleteMatch godoc
// @Summary Завершить матч (быстрый уходит в pending-details)
// @Tags matches
// @Produce json
// @Param matchID path string true "Код матча"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /matches/{matchID}/complete [post]
func (h *MatchHandler) CompleteMatch(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, "Match completed successfully", func(r *http.Request, user *models.User, matchID string) (*models.MatchView, error) {
		return h.matchService.CompleteMatch(r.Context(), user, matchID)
	})
}

// CompleteDetails godoc
// @Summary Заполнить детали быстрого матча и пересчитать доли
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path string true "Код матча"
// @Param input body services.CompleteDetailsInput true "Итоговые детали"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /matches/{matchID}/complete-details [post]
func (h *MatchHandler) CompleteDetails(w http.ResponseWriter, r *http.Request) {
	var input services.CompleteDetailsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.handleAction(w, r, "Match details completed successfully", func(r *http.Request, user *models.User, matchID string) (*models.MatchView, error) {
		return h.matchService.CompleteQuickMatchDetails(r.Context(), user, matchID, input)
	})
}

var errEmptyBody = errors.New("body must not be empty")
