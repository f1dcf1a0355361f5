package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageRequest 分页请求参数，规范化由服务层按配置完成
type PageRequest struct {
	Page     int
	PageSize int
}

// BindPage 从查询参数绑定分页，兼容 limit 作为 page_size 别名
func BindPage(c *gin.Context) PageRequest {
	size := c.Query("page_size")
	if size == "" {
		size = c.Query("limit")
	}
	return PageRequest{
		Page:     parseIntWithDefault(c.Query("page"), 1),
		PageSize: parseIntWithDefault(size, 0),
	}
}

// parseIntWithDefault 解析整数，失败时返回默认值
func parseIntWithDefault(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// QueryAlias 读取查询参数，依次尝试多个名字
func QueryAlias(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := c.Query(name); v != "" {
			return v
		}
	}
	return ""
}

// BindProjectID 从 URI 绑定作品 ID
func BindProjectID(c *gin.Context) string {
	return c.Param("pid")
}

// BindItemID 从 URI 绑定章节 ID
func BindItemID(c *gin.Context) string {
	return c.Param("iid")
}

// BindCommentID 从 URI 绑定评论 ID
func BindCommentID(c *gin.Context) string {
	return c.Param("cid")
}
