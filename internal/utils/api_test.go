package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloatParam(t *testing.T) {
	params := url.Values{}
	params.Set("lat", "47.61")
	params.Set("bad", "abc")

	lat, fieldErrors := ParseFloatParam(params, "lat", nil)
	assert.Equal(t, 47.61, lat)
	assert.Empty(t, fieldErrors)

	_, fieldErrors = ParseFloatParam(params, "bad", fieldErrors)
	assert.Contains(t, fieldErrors, "bad")

	missing, fieldErrors := ParseFloatParam(params, "absent", fieldErrors)
	assert.Equal(t, 0.0, missing)
	assert.NotContains(t, fieldErrors, "absent")
}

func TestParseIntParam(t *testing.T) {
	params := url.Values{}
	params.Set("maxCount", "7")
	params.Set("bad", "7.5")

	n, fieldErrors := ParseIntParam(params, "maxCount", nil)
	assert.Equal(t, 7, n)
	assert.Empty(t, fieldErrors)

	_, fieldErrors = ParseIntParam(params, "bad", fieldErrors)
	assert.Contains(t, fieldErrors, "bad")
}

func TestRequireParam(t *testing.T) {
	params := url.Values{}
	params.Set("present", "1")

	fieldErrors := RequireParam(params, "present", nil)
	assert.Empty(t, fieldErrors)

	fieldErrors = RequireParam(params, "absent", fieldErrors)
	assert.Contains(t, fieldErrors, "absent")
}
