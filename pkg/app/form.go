package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	val "github.com/go-playground/validator/v10"
)

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ",")
}

// MapsToString returns field => message, used as response data.
func (v ValidErrors) MapsToString() map[string]string {
	out := make(map[string]string, len(v))
	for _, err := range v {
		out[err.Key] = err.Message
	}
	return out
}

// BindAndValid binds the request into v and runs the binding rules,
// translating failures with the translator set by the lang middleware.
// BindAndValid 绑定并校验请求参数，错误信息按请求语言翻译
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	if err := c.ShouldBind(v); err != nil {
		return false, collect(c, err)
	}
	return true, nil
}

func collect(c *gin.Context, err error) ValidErrors {
	var errs ValidErrors

	verrs, ok := err.(val.ValidationErrors)
	if !ok {
		return append(errs, &ValidError{Key: "body", Message: err.Error()})
	}

	trans, _ := c.Value("trans").(ut.Translator)
	for _, fe := range verrs {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: fe.Field(), Message: msg})
	}
	return errs
}
