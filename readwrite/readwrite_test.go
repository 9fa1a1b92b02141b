//go:build !change

package readwrite

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Rogov-KS/readwrite/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fastConfig() config.Config {
	cfg := config.Default()
	cfg.ReadPacing = time.Millisecond
	cfg.WritePacing = time.Millisecond
	cfg.ReadHold = 0
	cfg.WriteHold = 0
	return cfg
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := fastConfig()
	cfg.Readers, cfg.Writers = 0, 0

	_, err := New(cfg, zaptest.NewLogger(t))
	require.ErrorIs(t, err, config.ErrNoAgents)
}

func TestRunner_Run(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r, err := New(fastConfig(), zap.New(core))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		return logs.FilterMessageSnippet("is writing").Len() > 0 &&
			logs.FilterMessageSnippet("is reading").Len() > 0
	}, 5*time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	require.Contains(t, []string{"Data from Writer 0", "Data from Writer 1", "Data from Writer 2"}, r.Resource().Read(0))

	runID := logs.FilterMessage("starting agents").All()[0].ContextMap()["run_id"]
	require.NotEmpty(t, runID)
}

func TestRunner_Handler(t *testing.T) {
	r, err := New(fastConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	r.Resource().Write(0, "x")

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	for _, tc := range []struct {
		path     string
		contains string
	}{
		{path: "/healthz", contains: "ok"},
		{path: "/metrics", contains: `readwrite_lock_acquired_total{mode="write"} 1`},
		{path: "/metrics", contains: `readwrite_lock_waiting{mode="read"} 0`},
	} {
		t.Run(tc.contains, func(t *testing.T) {
			resp, err := srv.Client().Get(srv.URL + tc.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Contains(t, string(body), tc.contains)
		})
	}
}

func TestRunner_ServesMetrics(t *testing.T) {
	cfg := fastConfig()
	cfg.MetricsAddr = "127.0.0.1:0"

	r, err := New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	addrCtx, addrCancel := context.WithTimeout(ctx, 5*time.Second)
	defer addrCancel()
	addr, err := r.MetricsAddr(addrCtx)
	require.NoError(t, err)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + addr.String() + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	cancel()
	require.NoError(t, <-done)
}

func TestRunner_ListenError(t *testing.T) {
	cfg := fastConfig()
	cfg.MetricsAddr = "256.0.0.1:bad"

	r, err := New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	// ошибка сервера останавливает всех агентов
	require.Error(t, r.Run(context.Background()))
}
