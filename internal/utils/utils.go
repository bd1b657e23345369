package utils

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func GetAdminID(r *http.Request, secret string) (string, bool) {
	if token, err := r.Cookie("token"); err != nil {
		return "", false
	} else if id, err := GetIDFromJWTToken(token.Value, secret); err != nil {
		return "", false
	} else {
		return id, true
	}
}

type AdminClaims struct {
	ID string `json:"id"`
	jwt.StandardClaims
}

func GetJWTToken(id string, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS512, AdminClaims{ID: id}).SignedString([]byte(secret))
}

func GetIDFromJWTToken(tokenString string, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid {
		return claims.ID, nil
	} else {
		return "", err
	}
}

const dateLayout = "Jan 2, 2006 15:04"

// FormatDate renders a timestamp for the dashboard, "N/A" when it is missing.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(dateLayout)
}
