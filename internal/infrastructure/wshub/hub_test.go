package wshub

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-notify-links/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	before := h.Len()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return h.Len() == before+1 }, time.Second, 10*time.Millisecond)
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) domain.SurfaceEnvelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var env domain.SurfaceEnvelope
	require.NoError(t, sonic.Unmarshal(data, &env))
	return env
}

func TestHub_BroadcastsToAllClients(t *testing.T) {
	h := New(zerolog.Nop(), nil)
	a := dial(t, h)
	b := dial(t, h)

	require.NoError(t, h.Post(context.Background(), &domain.NotificationDescriptor{ID: 3, Title: "Alice"}))
	for _, conn := range []*websocket.Conn{a, b} {
		env := readEnvelope(t, conn)
		assert.Equal(t, domain.OpPost, env.Op)
		assert.Equal(t, "Alice", env.Notification.Title)
	}

	require.NoError(t, h.Cancel(context.Background(), 3))
	env := readEnvelope(t, a)
	assert.Equal(t, domain.OpCancel, env.Op)
	assert.Equal(t, domain.NotificationID(3), env.ID)

	require.NoError(t, h.CancelAll(context.Background()))
	assert.Equal(t, domain.OpCancelAll, readEnvelope(t, a).Op)
}

func TestHub_NoClientsIsNotAnError(t *testing.T) {
	h := New(zerolog.Nop(), nil)
	assert.NoError(t, h.Post(context.Background(), &domain.NotificationDescriptor{}))
}

func TestHub_ClientMessages(t *testing.T) {
	got := make(chan domain.ClientMessage, 2)
	h := New(zerolog.Nop(), nil)
	h.OnClientMessage(func(_ context.Context, msg domain.ClientMessage) { got <- msg })
	conn := dial(t, h)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(domain.ClientMessage{
		Op: domain.ClientAction, ActionID: "ANSWER_CALL", Link: "myapp://app/CallScreen?action=answer", NotificationID: 9,
	}))

	select {
	case msg := <-got:
		assert.Equal(t, domain.ClientAction, msg.Op)
		assert.Equal(t, "ANSWER_CALL", msg.ActionID)
		assert.Equal(t, domain.NotificationID(9), msg.NotificationID)
	case <-time.After(time.Second):
		t.Fatal("client message not delivered")
	}
}

func TestHub_UnregistersOnClose(t *testing.T) {
	h := New(zerolog.Nop(), nil)
	conn := dial(t, h)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, 10*time.Millisecond)
}
