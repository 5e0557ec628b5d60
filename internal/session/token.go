package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fekuna/omnipos-pos-service/internal/model"
)

// EmployeeClaims is the employee token issued by the store API. The subject
// is the employee id.
type EmployeeClaims struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ValidateToken checks an HS256 employee token and returns its claims.
// Tokens without an expiry are refused: the session lifetime comes from it.
func ValidateToken(secret []byte, tokenString string) (*EmployeeClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &EmployeeClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*EmployeeClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// IssueToken signs an employee token. The store API issues the real ones;
// this exists for local terminals and tests.
func IssueToken(secret []byte, employee model.Employee, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := EmployeeClaims{
		Name: employee.Name,
		Role: employee.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   employee.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign employee token: %w", err)
	}
	return signed, nil
}
