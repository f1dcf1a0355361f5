// Package validation 配置 gin 绑定校验并将校验错误转换为应用错误
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "quilkalam-api/pkg/errors"
)

var setupOnce sync.Once

// Setup 让 gin 的校验器使用 JSON 字段名
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonTagName)
	})
}

func jsonTagName(fld reflect.StructField) string {
	name := fld.Tag.Get("json")
	if name == "" {
		return fld.Name
	}
	if i := strings.IndexByte(name, ','); i >= 0 {
		name = name[:i]
	}
	if name == "-" {
		return fld.Name
	}
	return name
}

// BindError 将请求绑定错误转换为 400 校验错误，明细按字段排序
func BindError(err error) *apperrors.AppError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		msgs := make([]string, 0, len(validationErrs))
		for _, e := range validationErrs {
			msgs = append(msgs, fieldPath(e)+" "+friendlyMessage(e))
		}
		sort.Strings(msgs)
		return apperrors.Validation("validation failed").WithDetail(strings.Join(msgs, "; "))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return apperrors.Validation("invalid JSON body")
	case errors.As(err, &typeErr):
		return apperrors.Validation("invalid request body").
			WithDetail(fmt.Sprintf("%s must be %s", typeErr.Field, typeErr.Type.String()))
	default:
		return apperrors.Validation("invalid request body").WithDetail(err.Error())
	}
}

// fieldPath 去掉顶层结构体名，例如 PublishRequest.items[0].name -> items[0].name
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s entries", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}
