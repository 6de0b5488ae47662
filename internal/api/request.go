package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// pageQuery is the skip/limit window accepted by list endpoints.
type pageQuery struct {
	Skip  int `form:"skip" binding:"min=0"`
	Limit int `form:"limit" binding:"min=0,max=500"`
}

// bindPage reads skip and limit; a zero limit lets the service pick its
// default.
func bindPage(c *gin.Context) (pageQuery, bool) {
	var q pageQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid pagination: "+errBind.Error())
		return q, false
	}
	return q, true
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if errParse != nil || id == 0 {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// bindJSON binds the request body and reports validation failures as 400.
func bindJSON(c *gin.Context, dst any) bool {
	if errBind := c.ShouldBindJSON(dst); errBind != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+errBind.Error())
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be empty.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if errBind := c.ShouldBindJSON(dst); errBind != nil && !errors.Is(errBind, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+errBind.Error())
		return false
	}
	return true
}
