package handler

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	PublicDir   string
	CORSOrigins []string
}

func NewRouter(h *Handler, cfg RouterConfig) (*gin.Engine, error) {
	r := gin.New()
	r.Use(RequestLogger(), Recovery())

	if len(cfg.CORSOrigins) > 0 {
		corsConfig := cors.Config{
			AllowMethods: []string{"GET", "HEAD", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}
		if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
			corsConfig.AllowAllOrigins = true
		} else {
			corsConfig.AllowOrigins = cfg.CORSOrigins
		}
		if err := corsConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid cors configuration: %w", err)
		}
		r.Use(cors.New(corsConfig))
	}

	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.GET("/categories", h.Categories)
		api.GET("/items", h.Items)
		api.GET("/search", h.Search)
	}

	r.NoRoute(Static(cfg.PublicDir))

	return r, nil
}
