package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spotavibe/spotavibe/webapi/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_RoutesThroughFiber(t *testing.T) {
	ta := testutils.NewTestApp(t)
	h := serve(ta.App)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Spotavibe API is running")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServe_SwaggerDocumentIsRegistered(t *testing.T) {
	h := serve(testutils.NewTestApp(t).App)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/create-checkout-session")
}
