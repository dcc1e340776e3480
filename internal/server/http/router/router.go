package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/retailpoint/counterd/internal/server/http/handlers"
	"github.com/retailpoint/counterd/internal/server/http/middleware"
)

// Setup configures the gin router with handlers and middleware.
func Setup(facade handlers.PosFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	tabHandler := handlers.NewTabHandler(facade)
	itemHandler := handlers.NewItemHandler(facade)
	editorHandler := handlers.NewEditorHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)

	api := engine.Group("/api")

	tabs := api.Group("/tabs")
	tabs.POST("", tabHandler.Create)
	tabs.POST("/open", tabHandler.Open)
	tabs.GET("", tabHandler.List)
	tabs.GET("/current", tabHandler.Current)
	tabs.GET("/current/checkout", checkoutHandler.Checkout)
	tabs.DELETE("/:id", tabHandler.Close)
	tabs.PUT("/:id/activate", tabHandler.Activate)
	tabs.PUT("/:id/customer", tabHandler.UpdateCustomer)
	tabs.PUT("/:id/tax", tabHandler.SetTax)
	tabs.PUT("/:id/invoice", tabHandler.SetInvoice)
	tabs.POST("/:id/saved", tabHandler.MarkSaved)
	tabs.PUT("/:id/edited", tabHandler.SetEdited)
	tabs.POST("/:id/items", itemHandler.Add)
	tabs.POST("/:id/items/clear", itemHandler.Clear)
	tabs.DELETE("/:id/items/:code", itemHandler.Remove)
	tabs.PATCH("/:id/items/:code", itemHandler.Update)

	ed := api.Group("/editor")
	ed.GET("", editorHandler.Cursor)
	ed.POST("/select", editorHandler.Select)
	ed.POST("/navigate", editorHandler.Navigate)
	ed.POST("/edit", editorHandler.Edit)
	ed.POST("/input", editorHandler.Input)
	ed.POST("/commit", editorHandler.Commit)
	ed.POST("/cancel", editorHandler.Cancel)
	ed.POST("/allocate", editorHandler.Allocate)
	ed.POST("/allocate/cancel", editorHandler.CancelAllocation)
	ed.POST("/deselect", editorHandler.Deselect)

	return engine
}
