package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// Pagination is the envelope attached to paged list responses.
type Pagination struct {
	TotalPages  int64 `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	TotalItems  int64 `json:"total_items"`
	PageSize    int   `json:"page_size"`
}

func NewPagination(total int64, page, pageSize int) Pagination {
	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 || pages == 0 {
		pages++
	}
	return Pagination{
		TotalPages:  pages,
		CurrentPage: page,
		TotalItems:  total,
		PageSize:    pageSize,
	}
}
