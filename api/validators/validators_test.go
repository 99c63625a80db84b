package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
)

type checkoutBody struct {
	Name  string `json:"name" validate:"required,min=2"`
	Price string `json:"price" validate:"omitempty,decimal"`
	Kind  string `json:"kind" validate:"omitempty,oneof=fixed percentage"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"A","price":"-1","kind":"bogo"}`))
	var body checkoutBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	typed := pkgerrors.As(err)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be at least 2", details["name"])
	assert.Equal(t, "must be a non-negative decimal amount", details["price"])
	assert.Equal(t, "must be one of: fixed percentage", details["kind"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana","extra":true}`))
	var body checkoutBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyAcceptsValid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana","price":"99.90","kind":"fixed"}`))
	var body checkoutBody
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.Equal(t, "99.90", body.Price)
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=30&bad=x&big=500", nil)

	v, err := ParseQueryInt(req, "limit", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 30, v)

	v, err = ParseQueryInt(req, "missing", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	_, err = ParseQueryInt(req, "bad", 20, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ParseQueryInt(req, "big", 20, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSanitizeStringCountsRunes(t *testing.T) {
	assert.Equal(t, "Peña", SanitizeString("  Peña  ", 10))
	assert.Equal(t, "Pe", SanitizeString("Peña", 2))
	assert.Equal(t, "Peñ", SanitizeString("Peña", 3))
}

func TestParsePage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&cursor=%20abc%20", nil)

	page, err := ParsePage(req)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Limit)
	assert.Equal(t, "abc", page.Cursor)

	_, err = ParsePage(httptest.NewRequest(http.MethodGet, "/?limit=0", nil))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyExplainsBadPayloads(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		reason string
	}{
		{"empty", ``, "request body is empty"},
		{"syntax", `{"name":`, "malformed JSON"},
		{"type", `{"name":12}`, "name must be a string"},
		{"unknown", `{"name":"Ana","coupon":"X"}`, `unknown field "coupon"`},
		{"trailing", `{"name":"Ana"} {"name":"Bea"}`, "single JSON object"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var body checkoutBody
			err := DecodeJSONBody(req, &body)
			require.Error(t, err)

			details, ok := pkgerrors.As(err).Details().(map[string]any)
			require.True(t, ok)
			assert.Contains(t, details["error"], tc.reason)
		})
	}
}
