package jwt

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/ain/models"
)

const refreshTokenBytes = 32

// Options describe how access tokens are signed and checked.
type Options struct {
	Secret   string
	Issuer   string
	Audience string
	Expiry   time.Duration
}

// Claims is the session carried by an access token.
type Claims struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
	Role        models.Role
}

// GenerateToken signs an HS256 access token for user and returns it with its expiry.
func GenerateToken(user *models.User, opts Options, now time.Time) (string, time.Time, error) {
	if opts.Secret == "" {
		return "", time.Time{}, errors.New("JWT secret key is missing")
	}
	expiry := now.Add(opts.Expiry)
	claims := jwt.MapClaims{
		"id":          user.ID.String(),
		"email":       user.Email,
		"displayName": user.DisplayName,
		"role":        user.Role.String(),
		"iss":         opts.Issuer,
		"aud":         opts.Audience,
		"iat":         now.Unix(),
		"exp":         expiry.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(opts.Secret))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign access token")
	}
	return signed, expiry, nil
}

// ValidateAndGetClaims verifies signature, expiry, issuer and audience.
func ValidateAndGetClaims(tokenString string, opts Options) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(opts.Secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !mapClaims.VerifyIssuer(opts.Issuer, true) {
		return nil, errors.New("invalid token issuer")
	}
	if !mapClaims.VerifyAudience(opts.Audience, true) {
		return nil, errors.New("invalid token audience")
	}

	idValue, _ := mapClaims["id"].(string)
	userID, err := uuid.Parse(idValue)
	if err != nil {
		return nil, errors.New("invalid user id claim")
	}
	roleValue, _ := mapClaims["role"].(string)
	role, ok := models.ParseRole(roleValue)
	if !ok {
		return nil, errors.New("invalid role claim")
	}

	email, _ := mapClaims["email"].(string)
	displayName, _ := mapClaims["displayName"].(string)
	return &Claims{
		UserID:      userID,
		Email:       email,
		DisplayName: displayName,
		Role:        role,
	}, nil
}

// GenerateRefreshToken returns 32 random bytes, base64 encoded.
func GenerateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
