package server

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	errs "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
)

var trans ut.Translator

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
		_ = enTranslations.RegisterDefaultTranslations(v, trans)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// decode reads a JSON body into v, trims tagged strings and validates it.
func decode(c *gin.Context, v interface{}) error {
	if err := json.NewDecoder(c.Request.Body).Decode(v); err != nil {
		return errs.New("invalid request body: "+err.Error(), http.StatusBadRequest)
	}
	if err := models.ValidateWhiteSpaces(v); err != nil {
		return errs.New(err.Error(), http.StatusBadRequest)
	}
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return translateError(err)
	}
	return nil
}

func translateError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.New(err.Error(), http.StatusBadRequest)
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return errs.New(strings.Join(msgs, "; "), http.StatusBadRequest)
}
