// Package signer produces the opaque approval artifacts attached to approved
// submissions. The moderation engine treats the artifact as an opaque string;
// only this package knows it is a JWT.
package signer

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Signer is the approval artifact port consumed by the moderation engine.
type Signer interface {
	SignApproval(ctx context.Context, submissionID string) (string, error)
}

// Claims carries the approved submission reference inside the artifact.
type Claims struct {
	SubmissionID string `json:"submission_id"`
	jwt.RegisteredClaims
}

// JWTSigner issues HS256 approval artifacts.
type JWTSigner struct {
	signingKey []byte
	issuer     string
}

func NewJWTSigner(signingKey, issuer string) (*JWTSigner, error) {
	if signingKey == "" {
		return nil, errors.New("signing key is required")
	}
	return &JWTSigner{signingKey: []byte(signingKey), issuer: issuer}, nil
}

func (s *JWTSigner) SignApproval(_ context.Context, submissionID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SubmissionID: submissionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  submissionID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   s.issuer,
			ID:       uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// Verify parses an artifact back into its claims. Exposed for operational
// tooling; the engine itself never calls it.
func (s *JWTSigner) Verify(artifact string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(artifact, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
