package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/templui/goalvoice/internal/model"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

var ErrInvalidJSON = errors.New("invalid JSON body")

// FieldError is one failed rule on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every field failure of a request.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

type validatorSvc struct {
	validate *validator.Validate
	trans    ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

func get() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// messages use json field names
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		registerEnum(v, trans, "goal_category", model.IsGoalCategory, model.GoalCategories)
		registerEnum(v, trans, "goal_status", model.IsGoalStatus, model.GoalStatuses)
		registerShort(v, trans, "min", "{0} must be at least {1} characters")
		registerShort(v, trans, "max", "{0} must be at most {1} characters")
		registerShort(v, trans, "e164", "{0} must be a phone number in E.164 format")

		vSvc = &validatorSvc{validate: v, trans: trans}
	})
	return vSvc
}

// Struct validates v against its `validate` tags. It returns nil or Errors.
func Struct(v any) error {
	svc := get()

	err := svc.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fe.Translate(svc.trans)})
	}
	return out
}

// DecodeJSON reads a single JSON object from the request body into T and
// validates it. Malformed input yields ErrInvalidJSON, rule failures Errors.
func DecodeJSON[T any](r *http.Request) (T, error) {
	var dst T

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	err := dec.Decode(&dst)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	err = Struct(dst)
	if err != nil {
		var zero T
		return zero, err
	}

	return dst, nil
}

func registerEnum(v *validator.Validate, trans ut.Translator, tag string, ok func(string) bool, allowed []string) {
	_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return ok(fl.Field().String())
	})

	list := strings.Join(allowed, ", ")
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, "{0} must be one of: "+list, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field())
			return msg
		},
	)
}

func registerShort(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
