package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds pagination parameters from request
type Params struct {
	Page  int
	Limit int
}

// FromQuery reads page/limit query parameters with defaults applied.
// Malformed or non-positive values fall back to the defaults; limit is
// capped at MaxLimit.
func FromQuery(c *gin.Context) Params {
	page, err := strconv.Atoi(c.DefaultQuery("page", ""))
	if err != nil || page <= 0 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", ""))
	if err != nil || limit <= 0 {
		limit = DefaultLimit
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:  page,
		Limit: limit,
	}
}
