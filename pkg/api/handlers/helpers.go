package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared struct validator for request bodies.
var validate = validator.New()

// decodeJSONBody decodes a JSON request body into the provided pointer.
// Returns true if successful, false if decoding fails (error response is
// written automatically).
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// decodeAndValidate decodes a JSON body and checks its validate tags.
// Returns true if successful; on failure a problem response naming the
// offending fields has already been written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if !decodeJSONBody(w, r, v) {
		return false
	}

	if err := validate.Struct(v); err != nil {
		var invalid validator.ValidationErrors
		if ok := isValidationErrors(err, &invalid); ok {
			fields := make([]string, 0, len(invalid))
			for _, fe := range invalid {
				fields = append(fields, fe.Field())
			}
			BadRequest(w, "Invalid fields: "+strings.Join(fields, ", "))
			return false
		}
		BadRequest(w, "Invalid request body")
		return false
	}

	return true
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	if ve, ok := err.(validator.ValidationErrors); ok {
		*target = ve
		return true
	}
	return false
}
