package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"precios/catalog/internal/catalog"
	"precios/catalog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			PublicDir:       t.TempDir(),
			ShutdownTimeout: 1,
		},
		Catalog: config.CatalogConfig{
			PriceDir:     t.TempDir(),
			TaxRate:      0.115,
			ParseWorkers: 2,
		},
	}
}

func TestNew_SelectsSource(t *testing.T) {
	cfg := testConfig(t)

	app, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &catalog.DirSource{}, app.Source)
	assert.Nil(t, app.Router)

	cfg.Catalog.CacheTTL = 60
	app, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &catalog.CachedSource{}, app.Source)
}

func TestNew_InvalidTaxRate(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.TaxRate = -1

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNewServer_ServesAPI(t *testing.T) {
	app, err := NewServer(testConfig(t))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"categories":[]}`, w.Body.String())
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := NewServer(testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_RequiresRouter(t *testing.T) {
	app, err := New(testConfig(t))
	require.NoError(t, err)

	assert.Error(t, app.Run(context.Background()))
}
