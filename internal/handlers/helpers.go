package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mohesu/jasmin-api/internal/jcli"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// statusFor maps a console outcome to the HTTP status returned to clients.
func statusFor(err error) int {
	switch jcli.KindOf(err) {
	case jcli.KindAuthenticationFailed:
		return http.StatusForbidden
	case jcli.KindUnknownObject:
		return http.StatusNotFound
	case jcli.KindImmutableKey, jcli.KindUnknownKey, jcli.KindSyntax,
		jcli.KindClientInput, jcli.KindProtocolUsage, jcli.KindActionFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeConsoleError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), jcli.DetailOf(err))
}

// decode reads a JSON body into v and runs its validate tags. Failures are
// reported as client input errors.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return jcli.Errorf(jcli.KindClientInput, "Invalid request body: %v", err)
	}
	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return jcli.Errorf(jcli.KindClientInput, "%s", formatValidationErrors(err))
	}
	return nil
}

func formatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleValidationError(e))
	}
	return strings.Join(messages, "; ")
}

func formatSingleValidationError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("missing parameter: %s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}
