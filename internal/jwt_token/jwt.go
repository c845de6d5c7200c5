package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
)

// UserClaim is the nested user object some issuers embed instead of a flat userId.
type UserClaim struct {
	ID string `json:"_id"`
}

// Claims accepts both token shapes seen in the wild: {"userId": ...} and {"user": {"_id": ...}}.
type Claims struct {
	UserID string     `json:"userId,omitempty"`
	User   *UserClaim `json:"user,omitempty"`
	jwt.RegisteredClaims
}

// rawUserID picks the user identifier by precedence: userId, user._id, sub.
func (c *Claims) rawUserID() string {
	switch {
	case c.UserID != "":
		return c.UserID
	case c.User != nil && c.User.ID != "":
		return c.User.ID
	default:
		return c.Subject
	}
}

// UserRef normalizes the claims into the immutable current-user value.
func (c *Claims) UserRef() (id.UserRef, error) {
	raw := c.rawUserID()
	if raw == "" {
		return id.UserRef{}, dErrors.New(dErrors.CodeUnauthorized, "token carries no user")
	}
	userID, err := id.ResolveUserID(raw)
	if err != nil {
		return id.UserRef{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "token carries an invalid user")
	}
	return id.NewUserRef(userID)
}

// JWTService validates HS256 tokens minted by the identity provider.
type JWTService struct {
	signingKey []byte
	issuer     string
}

// NewJWTService builds a validator. An empty issuer disables the issuer check.
func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// GenerateAccessToken signs a flat-shape token. Used by local tooling and tests.
func (s *JWTService) GenerateAccessToken(userID uuid.UUID, expiresIn time.Duration) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return newToken.SignedString(s.signingKey)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
