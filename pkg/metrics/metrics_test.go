package metrics

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.Cycle()
	r.Cycle()
	r.Action("clear", ResultApplied)
	r.Action("clear", ResultApplied)
	r.Action("flag", ResultRefused)
	r.Decision("act")
	r.Decision("navigate")
	r.Navigation()
	r.ObserveUpdate(20 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.cycles))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.actions.WithLabelValues("clear", ResultApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.actions.WithLabelValues("flag", ResultRefused)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.decisions.WithLabelValues("navigate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.navigations))

	count, err := testutil.GatherAndCount(reg, "powersweeper_bot_update_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Cycle()
		r.Action("clear", ResultError)
		r.Decision("explore")
		r.Navigation()
		r.ObserveUpdate(time.Second)
	})
}

func TestRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)
	assert.Panics(t, func() { NewRecorder(reg) })
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.Navigation()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "powersweeper_bot_navigations_total 1")
}

func TestServe(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg).Cycle()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, reg) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", ln.Addr()))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "powersweeper_bot_cycles_total 1")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
