// Package validator plugs go-playground/validator into gin with the
// project's custom rules.
// Package validator 为 gin 注册自定义的校验器与校验规则
package validator

import (
	"math"
	"reflect"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// TagColors lists the colors a tag may use.
var TagColors = []string{"red", "yellow", "green", "blue"}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

type CustomValidator struct {
	Once     sync.Once
	Validate *validator.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

func (v *CustomValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	v.lazyinit()
	return v.Validate.Struct(obj)
}

func (v *CustomValidator) Engine() any {
	v.lazyinit()
	return v.Validate
}

func (v *CustomValidator) lazyinit() {
	v.Once.Do(func() {
		v.Validate = validator.New()
		v.Validate.SetTagName("binding")
	})
}

// Register adds tagcolor, finite and username rules to validate.
func Register(validate *validator.Validate) error {
	rules := map[string]validator.Func{
		"tagcolor": isTagColor,
		"finite":   isFinite,
		"username": isUsername,
	}
	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isTagColor(fl validator.FieldLevel) bool {
	color := fl.Field().String()
	for _, c := range TagColors {
		if c == color {
			return true
		}
	}
	return false
}

func isFinite(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return true
}

func isUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}
