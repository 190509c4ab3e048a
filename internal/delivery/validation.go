package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"catalog_service/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// RegisterValidators adds the decimal price rules to gin's validator and makes
// it report fields by their JSON names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// Decimals reach the rules below as their exact string form.
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		mustRegister(v, "positive", decimalRule(func(d decimal.Decimal, _ int) bool {
			return d.IsPositive()
		}))
		mustRegister(v, "scale", decimalRule(func(d decimal.Decimal, places int) bool {
			return d.Equal(d.Truncate(int32(places)))
		}))
		mustRegister(v, "intdigits", decimalRule(func(d decimal.Decimal, digits int) bool {
			return d.Abs().LessThan(decimal.New(1, int32(digits)))
		}))
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validator: %v", tag, err))
	}
}

// decimalRule adapts a check on a decimal and the tag's integer parameter.
func decimalRule(check func(d decimal.Decimal, param int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		param := 0
		if fl.Param() != "" {
			if param, err = strconv.Atoi(fl.Param()); err != nil {
				return false
			}
		}
		return check(d, param)
	}
}

// bindingError converts the error from ShouldBindJSON into per-field messages.
func bindingError(err error) *domain.ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return &domain.ValidationError{Fields: fields}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.NewValidationError(typeErr.Field, "must be a "+typeErr.Type.String())
	}
	return domain.NewValidationError("body", "malformed request body: "+err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "positive":
		return "must be positive"
	case "scale":
		return fmt.Sprintf("must have at most %s decimal places", fe.Param())
	case "intdigits":
		return fmt.Sprintf("must have at most %s digits before the decimal point", fe.Param())
	case "gte":
		return "must not be negative"
	case "min":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
