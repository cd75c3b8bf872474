package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DefaultStreamURL is Binance's public spot websocket endpoint.
const DefaultStreamURL = "wss://stream.binance.com:9443/ws"

// ErrNoPrice is returned by a stream source before the first trade arrives.
// The tick is skipped, same as a REST fetch failure.
var ErrNoPrice = errors.New("marketdata: no price received yet")

// Stream subscribes to Binance's trade stream for one symbol and keeps the
// most recent trade price. CurrentPrice never blocks on the socket; the read
// loop runs in its own goroutine and publishes through the mutex-guarded
// cell, so the engine goroutine never touches the connection.
type Stream struct {
	url    string
	symbol string
	log    *zap.Logger

	mu        sync.RWMutex
	lastPrice float64
	haveTrade bool

	conn *websocket.Conn
	done chan struct{}
}

func NewStream(streamURL, symbol string, log *zap.Logger) *Stream {
	if streamURL == "" {
		streamURL = DefaultStreamURL
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Stream{
		url:    streamURL,
		symbol: symbol,
		log:    log,
		done:   make(chan struct{}),
	}
}

// tradeEvent is the subset of Binance's @trade payload we use.
type tradeEvent struct {
	EventType string `json:"e"`
	Symbol    string `json:"s"`
	Price     string `json:"p"`
}

// Connect dials the stream and starts the read loop.
func (s *Stream) Connect(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/%s@trade", s.url, strings.ToLower(s.symbol))

	dialer := &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}
	s.conn = conn

	go s.readLoop()
	return nil
}

func (s *Stream) readLoop() {
	defer close(s.done)

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Warn("trade stream closed", zap.String("symbol", s.symbol), zap.Error(err))
			return
		}

		var ev tradeEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			s.log.Warn("skipping unparseable stream message", zap.Error(err))
			continue
		}
		if ev.EventType != "trade" {
			continue
		}

		price, err := strconv.ParseFloat(ev.Price, 64)
		if err != nil {
			s.log.Warn("skipping trade with bad price", zap.String("price", ev.Price))
			continue
		}

		s.mu.Lock()
		s.lastPrice = price
		s.haveTrade = true
		s.mu.Unlock()
	}
}

// CurrentPrice returns the latest streamed trade price. It fails with
// ErrNoPrice until the first trade has been received.
func (s *Stream) CurrentPrice(_ context.Context, _ string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.haveTrade {
		return 0, ErrNoPrice
	}
	return s.lastPrice, nil
}

// Close shuts the socket and waits for the read loop to exit.
func (s *Stream) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	<-s.done
	return err
}
