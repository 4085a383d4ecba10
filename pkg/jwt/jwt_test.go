package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-farma/pkg/jwt"
)

const secret = "secreto-de-pruebas"

func TestGenerateParse_DevuelveUsuarioYRol(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", jwt.RoleGestor, "crm-farma", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, jwt.RoleGestor, role)
}

func TestParse_Rechaza(t *testing.T) {
	expired, err := jwt.Generate(secret, "u-1", jwt.RoleAdmin, "crm-farma", -1)
	require.NoError(t, err)
	valid, err := jwt.Generate(secret, "u-1", jwt.RoleAdmin, "crm-farma", 5)
	require.NoError(t, err)

	cases := map[string]struct{ secret, token string }{
		"expirado":      {secret, expired},
		"otro secreto":  {"otro", valid},
		"secreto vacío": {"", valid},
		"malformado":    {secret, "a.b.c"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := jwt.Parse(tc.secret, tc.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_SecretoVacio(t *testing.T) {
	_, err := jwt.Generate("", "u-1", jwt.RoleAdmin, "crm-farma", 5)
	assert.Error(t, err)
}
