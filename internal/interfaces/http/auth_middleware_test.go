package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/crm-farma/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "crm-farma-test"
)

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos por ruta
// ──────────────────────────────────────────────────────────────────────────────

// Un 400/404 indica que la petición pasó la autorización y llegó al handler.
func TestRouter_PermisosPorRol(t *testing.T) {
	cases := []struct {
		method, path string
		body         any
		admin        int
		gestor       int
		comercial    int
	}{
		{http.MethodGet, "/api/assignments", nil, 200, 200, 200},
		{http.MethodGet, "/api/assignments/999", nil, 404, 404, 404},
		{http.MethodGet, "/api/commercials/7/priority?postal_code_id=101", nil, 200, 200, 200},
		{http.MethodPost, "/api/assignments/bulk", map[string]any{}, 400, 400, 403},
		{http.MethodPost, "/api/assignments/province", map[string]any{}, 400, 400, 403},
		{http.MethodPost, "/api/assignments", map[string]any{}, 400, 400, 403},
		{http.MethodPut, "/api/assignments/999", map[string]any{}, 404, 404, 403},
		{http.MethodPost, "/api/assignments/999/deactivate", nil, 404, 404, 403},
		{http.MethodDelete, "/api/assignments/999", nil, 404, 403, 403},
	}
	app, _ := newAPI(t)
	for _, tc := range cases {
		for role, want := range map[string]int{
			pkgjwt.RoleAdmin:     tc.admin,
			pkgjwt.RoleGestor:    tc.gestor,
			pkgjwt.RoleComercial: tc.comercial,
		} {
			t.Run(tc.method+" "+tc.path+" "+role, func(t *testing.T) {
				resp, raw := call(t, app, tc.method, tc.path, role, tc.body)
				require.Equal(t, want, resp.StatusCode, string(raw))
				if want == http.StatusForbidden {
					assert.Equal(t, "FORBIDDEN", errorCode(t, raw))
				}
			})
		}
	}
}

func TestRouter_SoloAdminBorra(t *testing.T) {
	app, s := newAPI(t)
	resp, raw := call(t, app, http.MethodPost, "/api/assignments", pkgjwt.RoleGestor,
		map[string]any{"comercial_id": 7, "postal_code_id": 101, "brand_id": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	id := itoa(s.Assignments()[0].ID)

	resp, _ = call(t, app, http.MethodDelete, "/api/assignments/"+id, pkgjwt.RoleGestor, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Len(t, s.Assignments(), 1, "el gestor solo puede desactivar")

	resp, _ = call(t, app, http.MethodDelete, "/api/assignments/"+id, pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, s.Assignments())
}

func TestRouter_RolDesconocido(t *testing.T) {
	app, _ := newAPI(t)
	resp, raw := call(t, app, http.MethodGet, "/api/assignments", "invitado", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	sign := func(secret, role string, expMin int) string {
		tok, err := pkgjwt.Generate(secret, testUserID, role, testIssuer, expMin)
		require.NoError(t, err)
		return "Bearer " + tok
	}
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"sin cabecera", "", "MISSING_TOKEN"},
		{"esquema Basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", sign(testJWTSecret, pkgjwt.RoleAdmin, -1), "INVALID_TOKEN"},
		{"otro secreto", sign("otro-secreto", pkgjwt.RoleAdmin, 60), "INVALID_TOKEN"},
		{"sin rol", sign(testJWTSecret, "", 60), "MISSING_ROLE"},
	}
	app, _ := newAPI(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/assignments", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tc.want, errorCode(t, raw))
		})
	}
}
