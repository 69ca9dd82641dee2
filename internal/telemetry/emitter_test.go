package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledWithoutTrackingID(t *testing.T) {
	e := New(Config{BaseURL: "http://unused"})
	assert.Nil(t, e)

	// Nil emitters are inert.
	e.Track(ReviewCreated("m1"))
	e.Run(context.Background())
}

func TestHitParams(t *testing.T) {
	e := New(Config{TrackingID: "UA-1", BaseURL: "http://collector"})
	q := e.HitParams(ReviewCreated("movie-9"))

	assert.Equal(t, "1", q.Get("v"))
	assert.Equal(t, "UA-1", q.Get("tid"))
	assert.Equal(t, "event", q.Get("t"))
	assert.Equal(t, "Review", q.Get("ec"))
	assert.Equal(t, "/reviews", q.Get("ea"))
	assert.Equal(t, "API Request for Movie Review", q.Get("el"))
	assert.Equal(t, "1", q.Get("ev"))
	assert.Equal(t, "movie-9", q.Get("cd1"))
	assert.Equal(t, "1", q.Get("cm1"))
	assert.NotEmpty(t, q.Get("cid"))
	assert.NotEqual(t, q.Get("cid"), e.HitParams(ReviewCreated("movie-9")).Get("cid"))
}

func TestRun_Delivers(t *testing.T) {
	hits := make(chan url.Values, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collect", r.URL.Path)
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		hits <- r.URL.Query()
	}))
	defer srv.Close()

	e := New(Config{TrackingID: "UA-1", BaseURL: srv.URL + "/"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx)

	e.Track(ReviewCreated("m1"))

	select {
	case q := <-hits:
		assert.Equal(t, "m1", q.Get("cd1"))
	case <-time.After(2 * time.Second):
		t.Fatal("collector never received the hit")
	}
}

func TestTrack_DropsWhenFull(t *testing.T) {
	e := New(Config{TrackingID: "UA-1", BaseURL: "http://collector", QueueSize: 1})

	done := make(chan struct{})
	go func() {
		e.Track(ReviewCreated("a"))
		e.Track(ReviewCreated("b"))
		e.Track(ReviewCreated("c"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Track blocked on a full queue")
	}
	assert.Len(t, e.queue, 1)
}

func TestDeliver_FailureOpensBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := New(Config{TrackingID: "UA-1", BaseURL: srv.URL})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := e.deliver(ctx, ReviewCreated("m"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "returned 503")
	}

	err := e.deliver(ctx, ReviewCreated("m"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collector unavailable")
	assert.EqualValues(t, 5, calls.Load())
}
