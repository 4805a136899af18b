package utils

import (
	"fmt"
	"net/url"
	"strconv"
)

// ParseFloatParam retrieves a float64 value from the provided URL query parameters.
// If the key is not present, it returns 0 and leaves the fieldErrors map unchanged.
// If the value is invalid, it records a field error under the key.
// - params: URL query parameters.
// - key: The key to look for in the query parameters.
// - fieldErrors: A map to collect validation errors for fields.
// Returns:
// - The parsed float64 value (or 0 if invalid).
// - The updated fieldErrors map containing any validation errors.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return f, fieldErrors
}

// ParseIntParam retrieves an int value from the provided URL query parameters,
// with the same error-collection behavior as ParseFloatParam.
func ParseIntParam(params url.Values, key string, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return n, fieldErrors
}

// RequireParam records a field error when the key is absent from the query.
func RequireParam(params url.Values, key string, fieldErrors map[string][]string) map[string][]string {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}
	if params.Get(key) == "" {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Missing required field %q.", key))
	}
	return fieldErrors
}
