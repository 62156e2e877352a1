package api

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	notBlankTag = "notblank"
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON names, the ones the user sees in backend errors too.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
	_ = validate.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " cannot be blank"
		})
}

// ValidationError lists the fields of a payload that failed client-side
// checks. It matches common.ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return fmt.Sprintf("%s: %s", common.ErrValidation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return common.ErrValidation
}

// check validates v before anything is sent.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe.Namespace())] = fe.Translate(translator)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the struct name: "SessionAttendance.records[0].status"
// becomes "records[0].status".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
