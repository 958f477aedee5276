package serverutils

import (
	"errors"
	"strings"

	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const principalKey = "principal"

// ParsePrincipal verifies an HS256 token issued by the identity service and
// extracts the caller. Tokens are never issued here.
func ParsePrincipal(tokenStr, secret string) (*entity.Principal, error) {
	if secret == "" {
		return nil, apperror.Unauthorized("token verification is not configured")
	}
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.Unauthorized("invalid claims")
	}

	userIdStr, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return nil, apperror.Unauthorized("token missing user_id")
	}

	role := entity.UserRole(strings.ToUpper(stringClaim(claims, "role")))
	if role != entity.UserRoleRequester && role != entity.UserRoleSpecialist {
		return nil, apperror.Unauthorized("token carries unknown role")
	}

	return &entity.Principal{
		UserId: userId,
		Email:  stringClaim(claims, "email"),
		Role:   role,
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

// BearerToken returns the token from the Authorization header, or from the
// "token" query parameter for browser websocket handshakes.
func BearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ctx.Query("token")
}

func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := BearerToken(ctx)
		if tokenStr == "" {
			return apperror.Unauthorized("missing token")
		}

		principal, err := ParsePrincipal(tokenStr, secret)
		if err != nil {
			return err
		}

		ctx.Locals(principalKey, principal)
		return ctx.Next()
	}
}

// GetPrincipal returns the caller stored by the middleware, nil if absent.
func GetPrincipal(ctx *fiber.Ctx) *entity.Principal {
	p, _ := ctx.Locals(principalKey).(*entity.Principal)
	return p
}
