package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由，auth 为需要登录的路由前置中间件
func RegisterV1Routes(v1 *gin.RouterGroup, auth gin.HandlerFunc, h *Handlers) {
	// 认证
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	// 当前用户
	users := v1.Group("/users", auth)
	{
		users.GET("/me", h.User.GetMe)
		users.PUT("/me", h.User.UpdateMe)
	}

	v1.POST("/uploads/images", auth, h.User.UploadImage)

	// 作品
	projects := v1.Group("/projects")
	{
		projects.GET("", h.Project.ListProjects)
		projects.POST("/publish", auth, h.Project.Publish)
		projects.GET("/:pid", h.Project.GetProject)
		projects.PUT("/:pid", auth, h.Project.UpdateProject)
		projects.DELETE("/:pid", auth, h.Project.DeleteProject)

		// 作品下的章节
		projects.GET("/:pid/items", h.Item.ListItems)
		projects.POST("/:pid/items", auth, h.Item.AddItem)
		projects.POST("/:pid/items/batch", auth, h.Item.AddItems)
		projects.PUT("/:pid/items/batch", auth, h.Item.UpdateItems)
		projects.GET("/:pid/items/:iid", h.Item.GetItem)
		projects.PUT("/:pid/items/:iid", auth, h.Item.UpdateItem)
		projects.DELETE("/:pid/items/:iid", auth, h.Item.DeleteItem)
	}

	// 点赞
	likes := v1.Group("/likes", auth)
	{
		likes.POST("", h.Community.ToggleLike)
		likes.GET("", h.Community.GetLikeState)
	}

	// 关注
	follows := v1.Group("/follows", auth)
	{
		follows.POST("", h.Community.ToggleFollow)
		follows.GET("", h.Community.ListFollows)
	}

	// 评论
	comments := v1.Group("/comments")
	{
		comments.GET("", h.Community.ListComments)
		comments.POST("", auth, h.Community.CreateComment)
		comments.DELETE("/:cid", auth, h.Community.DeleteComment)
	}

	// 阅读进度
	reading := v1.Group("/reading-progress", auth)
	{
		reading.GET("", h.Community.GetReadingProgress)
		reading.POST("", h.Community.UpsertReadingProgress)
	}
}
