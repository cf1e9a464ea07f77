package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// errInvalidBody marks request bodies that could not be decoded at all.
var errInvalidBody = errors.New("invalid request body")

// bindFormValues reads a JSON object or an urlencoded/multipart form into FormValues.
// Repeated form fields stay as []string so scoring can reject them.
func bindFormValues(c *gin.Context) (domain.FormValues, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	switch c.ContentType() {
	case binding.MIMEJSON:
		var values map[string]interface{}
		if err := c.ShouldBindJSON(&values); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		if values == nil {
			values = map[string]interface{}{}
		}
		return domain.FormValues(values), nil

	case binding.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		return formToValues(c.Request.MultipartForm.Value), nil

	default:
		if err := c.Request.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		return formToValues(c.Request.PostForm), nil
	}
}

func formToValues(form map[string][]string) domain.FormValues {
	values := make(domain.FormValues, len(form))
	for key, v := range form {
		if len(v) == 1 {
			values[key] = v[0]
			continue
		}
		values[key] = v
	}
	return values
}
