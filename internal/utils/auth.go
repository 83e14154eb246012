package utils

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ValidateSessionToken parses and validates a storefront session token.
// Tokens are HS256-signed with the app's API secret; the audience claim must
// match the app's API key.
func ValidateSessionToken(tokenString, apiKey, apiSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(apiSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if apiKey != "" {
		audience, err := claims.GetAudience()
		if err != nil {
			return nil, fmt.Errorf("token has no audience: %w", err)
		}
		matched := false
		for _, aud := range audience {
			if aud == apiKey {
				matched = true
				break
			}
		}
		if !matched {
			return nil, errors.New("token audience does not match app key")
		}
	}

	return claims, nil
}

// ShopFromClaims extracts the shop domain from a session token's dest claim
func ShopFromClaims(claims jwt.MapClaims) string {
	dest, _ := claims["dest"].(string)
	return dest
}
