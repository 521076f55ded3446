// Package validation owns the single validator instance used by the backend
// handlers and by the client forms, so both sides apply the same rules and
// report them with the same words.
package validation

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Reasons reported for an invalid field. They are stable identifiers the
// UI can switch on; Message carries the human-readable text.
const (
	ReasonRequired   = "required"
	ReasonMinLength  = "minlength"
	ReasonEmail      = "email"
	ReasonBranch     = "branch"
	ReasonDuplicated = "duplicated"
	ReasonInvalid    = "invalid"
)

const (
	branchTag  = "branch"
	branchText = "{0} must be one of the known program codes"

	requiredTag  = "required"
	requiredText = "{0} is required"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	mu       sync.RWMutex
	branches []string
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string // JSON name of the field
	Reason  string // one of the Reason* constants
	Message string
}

func init() {
	enLocale := en.New()
	translator, _ = ut.New(enLocale, enLocale).GetTranslator("en")

	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(branchTag, branchValidation)
	registerTranslation(branchTag, branchText)
	registerTranslation(requiredTag, requiredText)
}

// registerTranslation overrides or adds the English text for tag.
func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// SetBranches replaces the set of accepted program codes.
// An empty set accepts any non-empty code.
func SetBranches(codes []string) {
	mu.Lock()
	defer mu.Unlock()
	branches = slices.Clone(codes)
}

// Branches returns the accepted program codes.
func Branches() []string {
	mu.RLock()
	defer mu.RUnlock()
	return slices.Clone(branches)
}

func branchValidation(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	mu.RLock()
	defer mu.RUnlock()
	if len(branches) == 0 {
		return code != ""
	}
	return slices.Contains(branches, code)
}

// Struct validates v and flattens the result into FieldErrors.
// It returns nil when v is valid.
func Struct(v any) []FieldError {
	return fieldErrors(validate.Struct(v))
}

// Field validates a single value of the struct v, addressed by its Go field
// name (e.g. "Email"). It returns nil when the value passes.
func Field(v any, goField string) []FieldError {
	return fieldErrors(validate.StructPartial(v, goField))
}

func fieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Reason: ReasonInvalid, Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Reason:  reasonFor(fe.ActualTag()),
			Message: fe.Translate(translator),
		})
	}
	return out
}

func reasonFor(tag string) string {
	switch tag {
	case "required":
		return ReasonRequired
	case "min":
		return ReasonMinLength
	case "email":
		return ReasonEmail
	case branchTag:
		return ReasonBranch
	default:
		return ReasonInvalid
	}
}

// Messages joins the messages of errs with ", ".
func Messages(errs []FieldError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, ", ")
}
