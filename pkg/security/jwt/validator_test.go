package jwt_test

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgJwt "github.com/Tandera-io/integracao-lia-teams/pkg/security/jwt"
	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/require"
)

func newJWKSServer(t *testing.T, pub interface{}) *httptest.Server {
	t.Helper()
	key, err := jwk.FromRaw(pub)
	require.NoError(t, err)
	require.NoError(t, key.Set(jwk.KeyIDKey, "test-key"))
	require.NoError(t, key.Set(jwk.AlgorithmKey, "RS256"))
	set := jwk.NewSet()
	require.NoError(t, set.AddKey(key))
	body, err := json.Marshal(set)
	require.NoError(t, err)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, errW := w.Write(body)
		require.NoError(t, errW)
	}))
}

func signToken(t *testing.T, priv *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "test-key"
	s, err := token.SignedString(priv)
	require.NoError(t, err)
	return s
}

func TestValidatorParse(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newJWKSServer(t, priv.Public())
	defer srv.Close()

	v := pkgJwt.NewValidator(srv.URL, nil)
	token := signToken(t, priv, jwt.MapClaims{
		"sub": "user1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	claims, err := v.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user1", claims["sub"])
}

func TestValidatorParseExpired(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newJWKSServer(t, priv.Public())
	defer srv.Close()

	v := pkgJwt.NewValidator(srv.URL, nil)
	token := signToken(t, priv, jwt.MapClaims{
		"sub": "user1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	_, err = v.Parse(token)
	require.Error(t, err)
}

func TestValidatorParseGarbage(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newJWKSServer(t, priv.Public())
	defer srv.Close()

	v := pkgJwt.NewValidator(srv.URL, nil)
	_, err = v.Parse("not-a-token")
	require.Error(t, err)
}
