package session

import (
	"time"

	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/pkg/hasher"
	"github.com/golang-jwt/jwt/v5"
)

// Describe reads display claims out of a token without verifying its
// signature. Opaque (non-JWT) tokens still report LoggedIn.
func Describe(token string, now time.Time) models.SessionInfo {
	if token == "" {
		return models.SessionInfo{}
	}

	info := models.SessionInfo{
		LoggedIn:    true,
		Fingerprint: hasher.Fingerprint(token),
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return info
	}

	info.Subject, _ = claims.GetSubject()
	info.Email = stringClaim(claims, "email")
	info.Role = stringClaim(claims, "role")
	if info.Role == "" {
		if meta, ok := claims["app_metadata"].(map[string]any); ok {
			info.Role, _ = meta["role"].(string)
		}
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time.UTC()
		info.Expired = !now.Before(exp.Time)
	}
	return info
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
