package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hoangvu/gesture-crop/internal/http/handlers"
	"github.com/hoangvu/gesture-crop/internal/http/middleware"
)

type Router struct {
	cropHandler *handlers.CropHandler
	logger      *zap.Logger
}

func NewRouter(
	cropHandler *handlers.CropHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cropHandler: cropHandler,
		logger:      logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.cropHandler.HealthCheck)

		crops := v1.Group("/crops")
		{
			crops.POST("", r.cropHandler.CropImage)
			crops.POST("/ocr", r.cropHandler.CropAndRecognize)
			crops.POST("/batch", r.cropHandler.BatchCrop)
			crops.POST("/async", r.cropHandler.CropAsync)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Gesture crop service is running",
		})
	})

	return router
}
