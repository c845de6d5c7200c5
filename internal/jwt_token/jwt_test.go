package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
)

var jwtService = NewJWTService("test-signing-key", "test-issuer")
var userID = uuid.New()
var expiresIn = time.Hour

func signClaims(t *testing.T, claims jwt.Claims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func Test_GenerateAccessToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(userID, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(userID, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func Test_ValidateToken_WrongKeyOrIssuer(t *testing.T) {
	wrongKey := signClaims(t, Claims{UserID: userID.String(), RegisteredClaims: jwt.RegisteredClaims{Issuer: "test-issuer"}}, "other-key")
	_, err := jwtService.ValidateToken(wrongKey)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	wrongIssuer := signClaims(t, Claims{UserID: userID.String(), RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"}}, "test-signing-key")
	_, err = jwtService.ValidateToken(wrongIssuer)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestClaimsUserRef(t *testing.T) {
	legacyHex := "64b7f0c2a1e4d93f1c2b3a4d"

	tests := []struct {
		name   string
		claims Claims
		want   id.UserID
		ok     bool
	}{
		{"flat userId", Claims{UserID: userID.String()}, id.UserID(userID), true},
		{"nested user._id", Claims{User: &UserClaim{ID: userID.String()}}, id.UserID(userID), true},
		{"legacy object id", Claims{User: &UserClaim{ID: legacyHex}}, id.UserID(id.LegacyUUID(id.LegacyKindUser, legacyHex)), true},
		{"subject fallback", Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}}, id.UserID(userID), true},
		{"flat wins over nested", Claims{UserID: userID.String(), User: &UserClaim{ID: uuid.NewString()}}, id.UserID(userID), true},
		{"no user", Claims{}, id.UserID{}, false},
		{"garbage user", Claims{UserID: "nope"}, id.UserID{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := tt.claims.UserRef()
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref.ID())
		})
	}
}

func TestUserResolverAcceptsNestedShape(t *testing.T) {
	token := signClaims(t, Claims{
		User: &UserClaim{ID: userID.String()},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, "test-signing-key")

	ref, err := NewUserResolver(jwtService).ResolveUser(token)
	require.NoError(t, err)
	assert.Equal(t, id.UserID(userID), ref.ID())
}
