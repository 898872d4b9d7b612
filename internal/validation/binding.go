package validation

import (
	"github.com/gin-gonic/gin"

	"github.com/dpshade/prompt-builder/internal/errors"
)

// BindJSON decodes the request body into dst and validates it
func (v *Validator) BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "Request body must be valid JSON").
			WithDetails(err.Error())
	}
	return v.Check(dst)
}
