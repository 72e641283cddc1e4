package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldDetail struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// BindError writes the 400 for a failed ShouldBind*. Validator failures
// are expanded field by field; malformed JSON gets no details.
func BindError(c *gin.Context, err error) {
	resp := HTTPError{
		Code:    "invalid_request",
		Message: "Dados inválidos.",
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			resp.Details = append(resp.Details, FieldDetail{
				Field: jsonField(fe),
				Rule:  fe.Tag(),
				Param: fe.Param(),
			})
		}
	}

	c.JSON(http.StatusBadRequest, resp)
}

func jsonField(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return fe.Field()
	}
	return ns
}
