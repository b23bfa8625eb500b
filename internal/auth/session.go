// Package auth issues and verifies session tokens and password hashes. Only
// the entitlement question "may this caller act as this role" is answered
// here; OTP/identity-provider mechanics live outside the core.
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// TokenExpireSec is seconds until JWT expiration; 0 means no expiry claim.
	TokenExpireSec int
)

func parseTokenExpireTime() {
	duration := os.Getenv("TOKEN_EXPIRE_TIME")
	if duration == "never" || duration == "0" || duration == "" {
		TokenExpireSec = 0
		return
	}
	d, err := time.ParseDuration(duration)
	if err != nil {
		fmt.Printf("failed to parse token expire time: %v\n", err)
		os.Exit(1)
	}
	TokenExpireSec = int(d.Seconds())
}

// Init generates a fresh ed25519 key pair at runtime. Sessions do not
// survive a restart, which is acceptable for this service.
func Init() {
	var err error
	publicKey, privateKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		fmt.Printf("failed to generate ed25519 key pair: %v\n", err)
		os.Exit(1)
	}
	parseTokenExpireTime()
}

// InitFromPath loads a persisted ed25519 key pair.
func InitFromPath(privatePath, publicPath string) error {
	privateKeyData, err := os.ReadFile(privatePath)
	if err != nil {
		return fmt.Errorf("failed to read private key file: %w", err)
	}
	publicKeyData, err := os.ReadFile(publicPath)
	if err != nil {
		return fmt.Errorf("failed to read public key file: %w", err)
	}
	privateKey = ed25519.PrivateKey(privateKeyData)
	publicKey = ed25519.PublicKey(publicKeyData)
	parseTokenExpireTime()
	return nil
}

// Session is the authenticated caller identity extracted from a token.
type Session struct {
	UserID uuid.UUID
	Role   models.Role
}

// CreateJWT signs a token with "sub" = user id and "role" = role.
func CreateJWT(userID uuid.UUID, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": string(role),
	}
	if TokenExpireSec > 0 {
		claims["exp"] = time.Now().Add(time.Duration(TokenExpireSec) * time.Second).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// AuthenticateJWT verifies a token string and returns the session it encodes.
func AuthenticateJWT(tokenString string) (Session, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", errs.ErrUnauthenticated, err)
	}
	if !t.Valid {
		return Session{}, fmt.Errorf("%w: invalid token", errs.ErrUnauthenticated)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, fmt.Errorf("%w: invalid jwt claims", errs.ErrUnauthenticated)
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return Session{}, fmt.Errorf("%w: missing sub in jwt", errs.ErrUnauthenticated)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Session{}, fmt.Errorf("%w: malformed sub in jwt", errs.ErrUnauthenticated)
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = string(models.RolePlayer)
	}
	return Session{UserID: userID, Role: models.Role(role)}, nil
}

// Require answers the entitlement check: admins may do anything, otherwise
// the session role must match.
func (s Session) Require(role models.Role) error {
	if s.Role == models.RoleAdmin || s.Role == role {
		return nil
	}
	return fmt.Errorf("%w: requires role %s", errs.ErrUnauthorized, role)
}
