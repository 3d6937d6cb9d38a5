package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/billstock-api/pkg/jwt"
)

const (
	secret   = "test-secret-key-for-unit-tests"
	userID   = "00000000-0000-0000-0000-000000000001"
	tenantID = "00000000-0000-0000-0000-000000000002"
	issuer   = "billstock-test"
)

func TestGenerateAndParse_ConTenant(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, tenantID, "admin", issuer, 60)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, issuer, tok)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParse_Rechaza(t *testing.T) {
	valid, err := pkgjwt.Generate(secret, userID, tenantID, "", issuer, 60)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(secret, userID, tenantID, "", issuer, -1)
	require.NoError(t, err)
	noTenant, err := pkgjwt.Generate(secret, userID, "", "", issuer, 60)
	require.NoError(t, err)

	tests := []struct {
		name, secret, issuer, token string
	}{
		{"expirado", secret, issuer, expired},
		{"secret incorrecto", "otro-secret", issuer, valid},
		{"emisor distinto", secret, "otro-emisor", valid},
		{"malformado", secret, issuer, "token.invalido.aqui"},
		{"sin tenant", secret, issuer, noTenant},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pkgjwt.Parse(tc.secret, tc.issuer, tc.token)
			assert.Error(t, err)
		})
	}

	_, err = pkgjwt.Parse(secret, issuer, noTenant)
	assert.ErrorIs(t, err, pkgjwt.ErrMissingTenant)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", userID, tenantID, "", issuer, 60)
	assert.Error(t, err)
}
