package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/theme"
)

// ErrInvalidConfig wraps every validation failure returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("sourcecolor", func(fl validator.FieldLevel) bool {
			_, err := theme.ParseHex(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			_, err := grid.ParseWeekday(fl.Field().String())
			return err == nil
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns the shared validator with the calgrid tags
// registered. Other packages use it for their input structs.
func GetValidator() *validator.Validate {
	return validatorInstance()
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: configuration is nil", ErrInvalidConfig)
	}
	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}
	return nil
}

func convertValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		msg := fmt.Sprintf("%s: failed %q", field, fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s: failed %q (%s)", field, fe.Tag(), fe.Param())
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}
