package validator

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/samber/lo"
)

// Password length bounds. The upper bound matches bcrypt's input limit.
const (
	PasswordMinLength = 6
	PasswordMaxLength = 72
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// Validator validates structs tagged with `validate`.
type Validator interface {
	Validate(data any) error
}

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError maps a field's JSON name to its translated message.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return "validation error"
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English messages and the
// custom "password" rule.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerPassword(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{validate: validate, translator: enTrans}, nil
}

// Validate returns a V10ValidationError when data violates its tags.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Translate(v.translator)
	}

	return out
}

// jsonFieldName reports the JSON key for a struct field, so "ConfirmPassword
// `json:"confirm_password"`" is reported as confirm_password. Untagged fields
// fall back to snake_case.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return lo.SnakeCase(f.Name)
	default:
		return name
	}
}

func registerPassword(validate *validator.Validate, enTrans ut.Translator) error {
	err := validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		p, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		n := utf8.RuneCountInString(p)
		return n >= PasswordMinLength && len(p) <= PasswordMaxLength
	})
	if err != nil {
		return err
	}

	return validate.RegisterTranslation("password", enTrans,
		func(t ut.Translator) error {
			return t.Add("password", "{0} must be 6-72 characters", false)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}
