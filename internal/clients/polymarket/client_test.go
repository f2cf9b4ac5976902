package polymarket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bobmcallan/polyfolio/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL+"/"), WithRateLimit(1000))
}

func TestGetActivity_SendsQueryAndHeaders(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activity", r.URL.Path)
		assert.Equal(t, "0xabc", r.URL.Query().Get("user"))
		assert.Equal(t, "500", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"conditionId":"c1","size":12.345678901234567,"side":"BUY"},"junk"]`))
	})

	recs, err := client.GetActivity(context.Background(), " 0xabc ", 0, -5)
	require.NoError(t, err)
	require.Len(t, recs, 1, "non-object elements skipped")

	size, ok := recs[0]["size"].(json.Number)
	require.True(t, ok, "numbers decode as json.Number")
	assert.Equal(t, "12.345678901234567", size.String())
}

func TestGetActivity_ClampsLimit(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		assert.Equal(t, "20", r.URL.Query().Get("offset"))
		w.Write([]byte(`[]`))
	})

	recs, err := client.GetActivity(context.Background(), "0xabc", 5000, 20)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestGetPositions_RequiresUser(t *testing.T) {
	client := NewClient()

	_, err := client.GetPositions(context.Background(), "  ")
	assert.Error(t, err)
}

func TestGetPositions_APIError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad user"}`, http.StatusBadRequest)
	})

	_, err := client.GetPositions(context.Background(), "0xabc")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "/positions", apiErr.Endpoint)
	assert.Contains(t, apiErr.Message, "bad user")
}

func TestGetValue_SingleObject(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/value", r.URL.Path)
		w.Write([]byte(`{"user":"0xabc","value":123.45}`))
	})

	recs, err := client.GetValue(context.Background(), "0xabc")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, json.Number("123.45"), recs[0]["value"])
}

func TestGetMarkets_DataEnvelopeAndActive(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		w.Write([]byte(`{"data":[{"id":"m1"},{"id":"m2"}],"next_cursor":"x"}`))
	})

	active := true
	recs, err := client.GetMarkets(context.Background(), 0, 0, &active)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestGetMarkets_NoActiveFilter(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.URL.Query()["active"]
		assert.False(t, ok)
		w.Write([]byte(`[]`))
	})

	_, err := client.GetMarkets(context.Background(), 10, 0, nil)
	require.NoError(t, err)
}

func TestGetCondition_FallsBackToMarkets(t *testing.T) {
	var calls atomic.Int32
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/conditions/0xcond":
			http.NotFound(w, r)
		case "/markets/0xcond":
			w.Write([]byte(`{"question":"Will it rain?"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	rec, err := client.GetCondition(context.Background(), "0xcond")
	require.NoError(t, err)
	assert.Equal(t, "Will it rain?", rec["question"])
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetCondition_BothFail(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.GetCondition(context.Background(), "0xcond")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetMarket_RejectsNonObject(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[1,2,3]`))
	})

	_, err := client.GetMarket(context.Background(), "m1")
	assert.Error(t, err)
}

func TestGet_InvalidJSON(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	_, err := client.GetPositions(context.Background(), "0xabc")
	assert.Error(t, err)
}

func TestGet_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	_, err := client.GetPositions(context.Background(), "0xabc")
	assert.Error(t, err)
}

func TestNewClientFromConfig(t *testing.T) {
	client := NewClientFromConfig(common.PolymarketConfig{
		BaseURL:   "http://example.test/",
		UserAgent: "Custom/2.0",
		RateLimit: 3,
		Timeout:   "5s",
	}, nil)

	assert.Equal(t, "http://example.test", client.baseURL)
	assert.Equal(t, "Custom/2.0", client.userAgent)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 3, client.limiter.Burst())
}
