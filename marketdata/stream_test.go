package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTradeServer upgrades incoming connections and replays the given
// messages, then keeps the connection open until the client closes it.
func newTradeServer(t *testing.T, messages []string) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		for _, msg := range messages {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
		}

		// hold the socket open; the client closes it
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitForPrice(t *testing.T, s *Stream) float64 {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		price, err := s.CurrentPrice(context.Background(), "ETHUSDT")
		if err == nil {
			return price
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no price arrived before deadline")
	return 0
}

func TestStreamPublishesLatestTrade(t *testing.T) {
	t.Parallel()

	srv := newTradeServer(t, []string{
		`{"e":"trade","s":"ETHUSDT","p":"2000.10"}`,
		`{"e":"trade","s":"ETHUSDT","p":"2000.40"}`,
	})
	t.Cleanup(srv.Close)

	s := NewStream(wsURL(srv), "ETHUSDT", nil)
	require.NoError(t, s.Connect(context.Background()))
	t.Cleanup(func() { _ = s.Close() })

	price := waitForPrice(t, s)
	assert.True(t, price == 2000.10 || price == 2000.40)
}

func TestStreamSkipsNonTradeMessages(t *testing.T) {
	t.Parallel()

	srv := newTradeServer(t, []string{
		`{"e":"aggTrade","s":"ETHUSDT","p":"1.00"}`,
		`not json at all`,
		`{"e":"trade","s":"ETHUSDT","p":"oops"}`,
		`{"e":"trade","s":"ETHUSDT","p":"1999.50"}`,
	})
	t.Cleanup(srv.Close)

	s := NewStream(wsURL(srv), "ETHUSDT", nil)
	require.NoError(t, s.Connect(context.Background()))
	t.Cleanup(func() { _ = s.Close() })

	assert.InDelta(t, 1999.50, waitForPrice(t, s), 1e-9)
}

func TestStreamNoPriceBeforeFirstTrade(t *testing.T) {
	t.Parallel()

	s := NewStream("ws://unused", "ETHUSDT", nil)
	_, err := s.CurrentPrice(context.Background(), "ETHUSDT")
	assert.ErrorIs(t, err, ErrNoPrice)
}
