package leetcode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"leetstreak/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(Options{
		BaseURL:           server.URL + "/",
		Timeout:           2 * time.Second,
		MaxRetries:        2,
		RequestsPerSecond: 1000,
		SubmissionLimit:   20,
	})
	c.initialInterval = time.Millisecond
	return c
}

func TestClient_DailyChallengeSlug(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/daily", r.URL.Path)
		_, _ = w.Write([]byte(`{"question":{"titleSlug":"two-sum","title":"Two Sum"}}`))
	}))

	slug, err := c.DailyChallengeSlug(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "two-sum", slug)
}

func TestClient_DailyChallengeSlug_EmptySlug(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"question":{}}`))
	}))

	_, err := c.DailyChallengeSlug(context.Background())
	assert.Error(t, err)
}

func TestClient_Problem(t *testing.T) {
	t.Run("stats as encoded string", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/problem/two-sum", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"title": "Two Sum",
				"difficulty": "Easy",
				"topicTags": [{"name": "Array"}, {"name": "Hash Table"}],
				"stats": "{\"totalAccepted\": \"10M\", \"acRate\": \"52.1%\"}",
				"url": "https://leetcode.com/problems/two-sum/"
			}`))
		}))

		p, err := c.Problem(context.Background(), "two-sum")
		require.NoError(t, err)
		assert.Equal(t, "two-sum", p.Slug)
		assert.Equal(t, "Two Sum", p.Title)
		assert.Equal(t, models.DifficultyEasy, p.Difficulty)
		assert.Equal(t, []string{"Array", "Hash Table"}, p.Topics)
		assert.Equal(t, "52.1%", p.AcceptanceRate)
		assert.Equal(t, "https://leetcode.com/problems/two-sum/", p.URL)
	})

	t.Run("stats as object and missing url", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"title": "LRU Cache", "difficulty": "Medium", "stats": {"acRate": "44.0%"}}`))
		}))

		p, err := c.Problem(context.Background(), "lru-cache")
		require.NoError(t, err)
		assert.Equal(t, models.DifficultyMedium, p.Difficulty)
		assert.Equal(t, "44.0%", p.AcceptanceRate)
		assert.Empty(t, p.Topics)
		assert.Equal(t, "https://leetcode.com/problems/lru-cache/", p.URL)
	})

	t.Run("unknown difficulty", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"title": "X", "difficulty": "Impossible"}`))
		}))

		_, err := c.Problem(context.Background(), "x")
		assert.Error(t, err)
	})
}

func TestClient_RecentSubmissions(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/alice/submissions", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[
			{"titleSlug": "two-sum", "statusDisplay": "Accepted", "timestamp": "1718000000"},
			{"titleSlug": "two-sum", "statusDisplay": "Wrong Answer", "timestamp": 1717990000},
			{"titleSlug": "add-two-numbers", "statusDisplay": "Accepted", "timestamp": "2024-06-10T08:00:00Z"}
		]`))
	}))

	subs, err := c.RecentSubmissions(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, subs, 3)

	assert.True(t, subs[0].IsAcceptedFor("two-sum"))
	assert.Equal(t, "1718000000", subs[0].Timestamp)
	assert.False(t, subs[1].IsAcceptedFor("two-sum"))
	assert.Equal(t, "1717990000", subs[1].Timestamp)
	assert.Equal(t, "2024-06-10T08:00:00Z", subs[2].Timestamp)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"question":{"titleSlug":"two-sum"}}`))
	}))

	slug, err := c.DailyChallengeSlug(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "two-sum", slug)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.RecentSubmissions(context.Background(), "alice")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.Problem(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(Options{BaseURL: server.URL, Timeout: 50 * time.Millisecond, RequestsPerSecond: 1000})
	c.initialInterval = time.Millisecond

	start := time.Now()
	_, err := c.DailyChallengeSlug(context.Background())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRawTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want RawTimestamp
	}{
		{"string", `"1718000000"`, "1718000000"},
		{"number", `1718000000`, "1718000000"},
		{"millis", `1718000000123`, "1718000000123"},
		{"iso", `"2024-06-10T08:00:00Z"`, "2024-06-10T08:00:00Z"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts RawTimestamp
			require.NoError(t, ts.UnmarshalJSON([]byte(tt.in)))
			assert.Equal(t, tt.want, ts)
		})
	}
}
