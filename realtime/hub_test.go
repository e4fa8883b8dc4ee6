package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Faaz345/playsplit/clock"
	"github.com/Faaz345/playsplit/redisstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startRoom поднимает hub и websocket-сервер, подписывающий клиентов на room.
func startRoom(t *testing.T, room string) (*Hub, *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(discardLogger())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, room)
		if !hub.Attach(client) {
			conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 10*time.Millisecond)
	return hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WebSocketMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg WebSocketMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubBroadcastReachesRoom(t *testing.T) {
	hub, conn := startRoom(t, "match-AB12CD34")

	hub.Broadcast(context.Background(), "match-AB12CD34", EventPlayerJoined, map[string]string{"user_id": "u1"})
	// другая комната не должна получить ничего
	hub.Broadcast(context.Background(), "match-OTHER", EventPlayerLeft, nil)

	msg := readMessage(t, conn)
	require.Equal(t, EventPlayerJoined, msg.Type)
	require.Equal(t, "match-AB12CD34", msg.RoomID)
	require.Equal(t, map[string]interface{}{"user_id": "u1"}, msg.Payload)
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub, conn := startRoom(t, "match-1")
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return hub.RoomSize("match-1") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRedisFanoutDeliversThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	store := redisstore.NewFromClient(rdb, "test:", clock.New(), discardLogger())

	hub, conn := startRoom(t, "match-42")
	fanout := NewRedisFanout(hub, store, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go fanout.Run(ctx)
	require.Eventually(t, func() bool {
		return len(mr.PubSubChannels("test:"+fanoutChannel)) == 1
	}, time.Second, 10*time.Millisecond)

	fanout.Broadcast(context.Background(), "match-42", EventPaymentCompleted, map[string]int64{"amount": 250})

	msg := readMessage(t, conn)
	require.Equal(t, EventPaymentCompleted, msg.Type)
	require.Equal(t, map[string]interface{}{"amount": float64(250)}, msg.Payload)
}

type stalledPubSub struct{}

func (stalledPubSub) Publish(ctx context.Context, _ string, _ []byte) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stalledPubSub) Subscribe(context.Context, string) *redis.PubSub { return nil }

func TestRedisFanoutStalledPublishFallsBackLocally(t *testing.T) {
	hub, conn := startRoom(t, "match-7")
	fanout := NewRedisFanout(hub, stalledPubSub{}, discardLogger())
	fanout.timeout = 50 * time.Millisecond

	start := time.Now()
	fanout.Broadcast(context.Background(), "match-7", EventPlayerJoined, map[string]string{"user_id": "u7"})
	require.Less(t, time.Since(start), time.Second)

	msg := readMessage(t, conn)
	require.Equal(t, EventPlayerJoined, msg.Type)
	require.Equal(t, map[string]interface{}{"user_id": "u7"}, msg.Payload)
}
