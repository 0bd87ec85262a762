package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nikolayk812/checkout-demo/internal/domain"
)

const identityKey = "identity"

// Claims is the token payload naming the caller.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate resolves the caller from an HS256 bearer token. Websocket
// clients, which cannot set headers from a browser, may pass the token in the
// access_token query parameter instead.
func Authenticate(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "authorization token is missing", nil)
			return
		}

		var claims Claims
		token, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token", nil)
			return
		}

		who, err := claims.identity()
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
			return
		}

		c.Set(identityKey, who)
		c.Next()
	}
}

// IssueToken signs a token for who, valid for ttl.
func IssueToken(secret []byte, who domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: who.Email,
		Role:  string(who.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   who.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}

	return signed, nil
}

func (c Claims) identity() (domain.Identity, error) {
	if c.Subject == "" {
		return domain.Identity{}, errors.New("token subject is empty")
	}

	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return domain.Identity{}, errors.New("token role is not valid")
	}

	return domain.Identity{ID: c.Subject, Email: c.Email, Role: role}, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return c.Query("access_token")
}

func identityFrom(c *gin.Context) domain.Identity {
	who, _ := c.MustGet(identityKey).(domain.Identity)
	return who
}
