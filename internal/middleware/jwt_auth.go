package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

// IdentityClaims are the OIDC-style claims carried by HS256 identity tokens.
type IdentityClaims struct {
	Email             string `json:"email,omitempty"`
	GivenName         string `json:"given_name,omitempty"`
	FamilyName        string `json:"family_name,omitempty"`
	Picture           string `json:"picture,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier accepts identity tokens signed with a shared HMAC secret.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required for the jwt auth provider")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (models.ExternalIdentity, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return models.ExternalIdentity{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return models.ExternalIdentity{}, errors.New("invalid token")
	}
	return models.ExternalIdentity{
		ExternalID:   claims.Subject,
		FirstName:    claims.GivenName,
		LastName:     claims.FamilyName,
		Email:        claims.Email,
		AvatarURL:    claims.Picture,
		UsernameHint: claims.PreferredUsername,
	}, nil
}

// Sign issues a token for identity that expires after ttl.
func (v *JWTVerifier) Sign(identity models.ExternalIdentity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &IdentityClaims{
		Email:             identity.Email,
		GivenName:         identity.FirstName,
		FamilyName:        identity.LastName,
		Picture:           identity.AvatarURL,
		PreferredUsername: identity.UsernameHint,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ExternalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
