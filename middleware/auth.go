package middleware

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

// SessionToken verifies the embedded-app session token the admin UI sends
// with every request. The token is an HS256 JWT signed with the app secret;
// the shop domain from its "dest" claim is stored in locals for handlers.
func SessionToken() fiber.Handler {
	secret := os.Getenv("APP_SECRET")
	if secret == "" {
		secret = "solid_secret_key" // Replace with secure key in production
	}

	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			userToken := c.Locals("user")
			if userToken == nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "No session token",
				})
			}

			token, ok := userToken.(*jwt.Token)
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid token",
				})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid token claims",
				})
			}

			shop, err := extractShop(claims)
			if err != nil {
				fmt.Println("Shop extraction error:", err)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid shop in token",
				})
			}

			c.Locals("shop", shop)
			return c.Next()
		},
	})
}

// extractShop reads the shop domain out of the session token claims
func extractShop(claims jwt.MapClaims) (string, error) {
	for _, key := range []string{"dest", "shop"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("no shop found in claims")
}

// jwtError handles JWT errors
func jwtError(c *fiber.Ctx, err error) error {
	fmt.Println("JWT Error:", err)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "Unauthorized",
		"message": "Invalid or expired session token",
	})
}
