package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/Faaz345/playsplit/realtime"
	"github.com/Faaz345/playsplit/services"
	"github.com/Faaz345/playsplit/utils"
)

type WebSocketHandler struct {
	hub          *realtime.Hub
	matchService services.MatchService
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewWebSocketHandler: при пустом allowedOrigins принимаются любые Origin (локальная разработка).
func NewWebSocketHandler(hub *realtime.Hub, matchService services.MatchService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed[o] = true
		}
	}

	return &WebSocketHandler{
		hub:          hub,
		matchService: matchService,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// ServeWs подписывает клиента на события матча.
// Клиент подключается к /ws/matches/{matchID}
// @Summary Подписка на события матча (websocket)
// @Tags realtime
// @Param matchID path string true "Код матча"
// @Success 101
// @Failure 404 {object} envelope
// @Router /ws/matches/{matchID} [get]
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
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

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("match_id", matchID),
			slog.Any("error", err))
		return
	}

	client := realtime.NewClient(h.hub, conn, utils.MatchTopic(view.MatchID))

	snapshot, err := json.Marshal(realtime.WebSocketMessage{
		Type:    realtime.EventMatchState,
		Payload: view,
		RoomID:  client.Room,
	})
	if err == nil {
		client.Send <- snapshot
	}

	if !h.hub.Attach(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
