package gql

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	namePattern = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains the result of descriptor validation.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// Validate validates a single descriptor.
func Validate(d Descriptor) ValidationResult {
	result := ValidationResult{Valid: true}
	result.merge("", validateOne(d))
	return result
}

// ValidateAll validates a set of descriptors loaded from one source,
// including name uniqueness.
func ValidateAll(descs []Descriptor) ValidationResult {
	result := ValidationResult{Valid: true}
	if len(descs) == 0 {
		result.addError("queries", "at least one query is required")
	}

	seen := make(map[string]bool)
	for i, d := range descs {
		prefix := fmt.Sprintf("queries[%d].", i)
		result.merge(prefix, validateOne(d))
		if d.Name == "" {
			continue
		}
		if seen[d.Name] {
			result.addError(prefix+"name", fmt.Sprintf("duplicate query name: %s", d.Name))
		}
		seen[d.Name] = true
	}
	return result
}

func validateOne(d Descriptor) []ValidationError {
	var errs []ValidationError

	if err := validate.Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return []ValidationError{{Field: "query", Message: err.Error()}}
		}
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{Field: fieldPath(fe), Message: tagMessage(fe.Tag())})
		}
	}

	if d.Name != "" && !namePattern.MatchString(d.Name) {
		errs = append(errs, ValidationError{Field: "name", Message: fmt.Sprintf("invalid name %q (use lower-case dotted words)", d.Name)})
	}
	if d.Query != "" && !isDocument(d.Query) {
		errs = append(errs, ValidationError{Field: "query", Message: "must start with 'query', 'mutation' or '{'"})
	}
	if len(d.Columns) > 0 && len(d.Fields) > 0 && len(d.Columns) != len(d.Fields) {
		errs = append(errs, ValidationError{
			Field:   "columns",
			Message: fmt.Sprintf("%d columns for %d fields", len(d.Columns), len(d.Fields)),
		})
	}
	if len(d.Columns) > 0 && len(d.Fields) == 0 {
		errs = append(errs, ValidationError{Field: "columns", Message: "columns require fields"})
	}
	return errs
}

// fieldPath strips the struct name from a validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func tagMessage(tag string) string {
	if tag == "required" {
		return "is required"
	}
	return "failed " + tag + " check"
}

func isDocument(q string) bool {
	q = strings.TrimSpace(q)
	return strings.HasPrefix(q, "query") || strings.HasPrefix(q, "mutation") || strings.HasPrefix(q, "{")
}

func (r *ValidationResult) merge(prefix string, errs []ValidationError) {
	for _, e := range errs {
		r.addError(prefix+e.Field, e.Message)
	}
}

// addError adds an error to the validation result.
func (r *ValidationResult) addError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// FormatErrors formats validation errors as a string.
func (r ValidationResult) FormatErrors() string {
	if r.Valid {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Validation errors:\n")
	for _, err := range r.Errors {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}
