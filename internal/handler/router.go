package handler

import (
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/imgwall/internal/middleware"
)

type RouterDeps struct {
	Images            *ImageHandler
	Comments          *CommentHandler
	Files             *FileHandler
	CORSAllowlist     []string
	CommentRateWindow time.Duration
}

func NewRouter(deps RouterDeps) *gin.Engine {
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(deps.CORSAllowlist),
		gzip.Gzip(gzip.DefaultCompression),
	)

	engine.POST("/upload", deps.Images.Upload)
	engine.GET("/images", deps.Images.List)
	engine.DELETE("/images/:id", deps.Images.Delete)

	engine.GET("/comments", deps.Comments.List)
	engine.POST("/comments", middleware.RateLimit(deps.CommentRateWindow), deps.Comments.Create)
	engine.DELETE("/comments/:id", deps.Comments.Delete)

	engine.GET("/files/:key", deps.Files.Get)
	return engine
}
