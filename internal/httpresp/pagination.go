package httpresp

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination reads page/limit query params. limit is capped at max.
func Pagination(c *gin.Context, defLimit, max int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defLimit)))
	if limit <= 0 || limit > max {
		limit = defLimit
	}

	return page, limit, (page - 1) * limit
}
