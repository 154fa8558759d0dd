package http

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	appsvc "github.com/BubbleCoding/Spellfinder-PF1E/internal/app"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/bootstrap"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/cache"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/repository"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.StaticFile("/", filepath.Join(app.Config.App.WebDir, "index.html"))
	router.GET("/healthz", healthHandler.Check)

	spellRepo := repository.NewSpellRepository(app.DB)
	filterRepo := repository.NewFilterRepository(app.DB)
	bookRepo := repository.NewSpellbookRepository(app.DB)

	var filterCache appsvc.FilterOptionsCache
	if app.Redis != nil {
		filterCache = cache.NewFilterCache(
			app.Redis,
			time.Duration(app.Config.Redis.FilterTTLSeconds)*time.Second,
		)
	}

	searchService := appsvc.NewSearchService(spellRepo)
	filterService := appsvc.NewFilterService(filterRepo, filterCache)
	bookService := appsvc.NewSpellbookService(bookRepo, spellRepo)

	spellHandler := handler.NewSpellHandler(searchService)
	filterHandler := handler.NewFilterHandler(filterService)
	bookHandler := handler.NewSpellbookHandler(bookService)

	v1 := router.Group("/api/v1")
	v1.GET("/spells", spellHandler.Search)
	v1.GET("/spells/:id", spellHandler.Get)
	v1.GET("/filters", filterHandler.Options)

	books := v1.Group("/spellbooks")
	books.GET("", bookHandler.List)
	books.POST("", bookHandler.Create)
	books.POST("/import", bookHandler.Import)
	books.GET("/:id", bookHandler.Get)
	books.PUT("/:id", bookHandler.Rename)
	books.DELETE("/:id", bookHandler.Delete)
	books.POST("/:id/spells", bookHandler.AddSpell)
	books.DELETE("/:id/spells/:spellID", bookHandler.RemoveSpell)
	books.PUT("/:id/spells/:spellID/prepared", bookHandler.SetPrepared)
	books.POST("/:id/reset", bookHandler.ResetPrepared)
	books.GET("/:id/summary", bookHandler.Summary)
	books.GET("/:id/export", bookHandler.Export)

	return router
}
