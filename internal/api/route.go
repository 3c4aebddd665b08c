package api

import (
	"Inkstone/internal/api/middleware"
	"Inkstone/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		// 无需登录即可访问的接口
		apiGroup.POST("/register", group.UserHandler.Register)
		apiGroup.POST("/login", group.UserHandler.Login)
		apiGroup.GET("/user/:user_id", group.UserHandler.GetUser)

		authGroup := apiGroup.Group("")
		authGroup.Use(middleware.AuthMiddleware())
		{
			authGroup.POST("/logout", group.UserHandler.Logout)
			authGroup.PUT("/avatar", group.UserHandler.UploadAvatar)
		}

		postGroup := apiGroup.Group("/posts")
		{
			// 可选鉴权：登录查看者能拿到自己的点赞/收藏状态
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.PostHandler.ListPosts)
				authOptGroup.GET("/id/:post_id", group.PostHandler.GetPostById)
				authOptGroup.GET("/slug/:slug", group.PostHandler.GetPostBySlug)
				authOptGroup.GET("/user/:user_id", group.PostHandler.GetPostsByUserId)
				authOptGroup.GET("/:post_id/comments", group.PostActionHandler.GetComments)
			}

			authPostGroup := postGroup.Group("")
			authPostGroup.Use(middleware.AuthMiddleware())
			{
				authPostGroup.POST("", group.PostHandler.CreatePost)
				authPostGroup.POST("/upload-image", group.PostHandler.UploadImage)
				authPostGroup.DELETE("/:post_id", group.PostHandler.DeletePost)

				authPostGroup.POST("/:post_id/like", group.PostActionHandler.LikePost)
				authPostGroup.POST("/:post_id/bookmark", group.PostActionHandler.BookmarkPost)

				authPostGroup.POST("/:post_id/comments", group.PostActionHandler.CreateComment)
				authPostGroup.PUT("/:post_id/comments/:comment_id", group.PostActionHandler.UpdateComment)
				authPostGroup.DELETE("/:post_id/comments/:comment_id", group.PostActionHandler.DeleteComment)
			}
		}
	}

	return r
}
