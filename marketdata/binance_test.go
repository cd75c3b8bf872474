package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentPrice(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		assert.Equal(t, "ETHUSDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"symbol":"ETHUSDT","price":"2013.37000000"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	price, err := c.CurrentPrice(context.Background(), "ETHUSDT")

	require.NoError(t, err)
	assert.InDelta(t, 2013.37, price, 1e-9)
}

func TestCurrentPriceAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	_, err := c.CurrentPrice(context.Background(), "NOPE")

	assert.ErrorContains(t, err, "status 400")
}

func TestCurrentPriceBadPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"not_json", "<html>nope</html>"},
		{"unparseable_price", `{"symbol":"ETHUSDT","price":"many"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			c := NewClient(srv.URL)
			_, err := c.CurrentPrice(context.Background(), "ETHUSDT")
			assert.Error(t, err)
		})
	}
}

func TestCurrentPriceEmptySymbol(t *testing.T) {
	t.Parallel()

	c := NewClient("")
	_, err := c.CurrentPrice(context.Background(), "")
	assert.Error(t, err)
}
