package jwt

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims claims estándar más el email del usuario, tal como los emite el proveedor de identidad.
// El rol no viaja en el token: se resuelve contra la lista de usuarios autorizados.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role,omitempty"` // rol del proveedor ("authenticated"), no el de la app
}

// Identity datos del usuario extraídos de un token válido.
type Identity struct {
	UserID string
	Email  string
}

// Generate firma un token HS256 con el mismo formato que el proveedor (uso en desarrollo y CLI).
func Generate(secret, subject, email, issuer, audience string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Email: strings.ToLower(email),
		Role:  "authenticated",
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, expiración y, si se indican, issuer y audience.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o no trae email.
func Parse(secret, issuer, audience, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	if claims.Email == "" {
		return Identity{}, fmt.Errorf("token sin email")
	}
	return Identity{UserID: claims.Subject, Email: strings.ToLower(claims.Email)}, nil
}
