package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"precios/catalog/internal/catalog"
	"precios/catalog/internal/config"
	"precios/catalog/internal/handler"
	"precios/catalog/internal/loader"
	"precios/catalog/internal/repository"
	"precios/catalog/internal/service"
	"precios/catalog/internal/tax"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Calculator *tax.Calculator
	Builder    *catalog.Builder
	Source     service.CatalogSource
	Service    *service.Service
	Router     *gin.Engine
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	calc, err := tax.NewCalculator(cfg.Catalog.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tax calculator: %w", err)
	}
	container.Calculator = calc

	builder := catalog.NewBuilder(loader.New(calc), cfg.Catalog.ParseWorkers)
	container.Builder = builder

	if cfg.Catalog.CacheTTL > 0 {
		ttl := time.Duration(cfg.Catalog.CacheTTL) * time.Second
		container.Source = catalog.NewCachedSource(builder, repository.NewSourceRepository(cfg.Catalog.PriceDir), ttl)
		log.Infof("🗂️ Catalog snapshots cached for up to %v while %s is unchanged", ttl, cfg.Catalog.PriceDir)
	} else {
		container.Source = catalog.NewDirSource(builder, cfg.Catalog.PriceDir)
	}

	container.Service = service.NewService(container.Source)

	return container, nil
}

// NewServer additionally wires the HTTP router.
func NewServer(cfg *config.Config) (*Container, error) {
	container, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if log.IsLevelEnabled(log.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := handler.NewRouter(handler.NewHandler(container.Service), handler.RouterConfig{
		PublicDir:   cfg.Server.PublicDir,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}
	container.Router = router

	return container, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (c *Container) Run(ctx context.Context) error {
	if c.Router == nil {
		return errors.New("container has no router; build it with NewServer")
	}

	srv := &http.Server{
		Addr:              c.Config.Server.Addr(),
		Handler:           c.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("✅ Catalog online at http://localhost:%d (sources: %s, tax rate: %v)",
			c.Config.Server.Port, c.Config.Catalog.PriceDir, c.Calculator.Rate())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(c.Config.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		log.Info("Server shut down successfully")
		return nil
	})

	return g.Wait()
}
