package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"quotedesk/constants"
)

var (
	ErrInvalidSession = errors.New("invalid session token")
	ErrExpiredSession = errors.New("session token expired")
)

type sessionClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

type userContextKey struct{}

func issueSessionToken(user *User, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	claims := &sessionClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func parseSessionToken(tokenString string, secret []byte) (*sessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, ErrInvalidSession
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// startSession logs the user in by setting a signed session cookie
func startSession(w http.ResponseWriter, user *User) error {
	token, err := issueSessionToken(user, []byte(appConfig.SecretKey), appConfig.SessionTTL, time.Now())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SESSION_COOKIE_NAME,
		Value:    token,
		Path:     "/",
		MaxAge:   int(appConfig.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   appConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func endSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SESSION_COOKIE_NAME,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   appConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func withUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// currentUser returns the signed in user for this request, or nil
func currentUser(r *http.Request) *User {
	user, _ := r.Context().Value(userContextKey{}).(*User)
	return user
}

// SessionMiddleware resolves the session cookie to a stored user whose role
// still matches the token. Requests without a valid session pass through
// anonymously.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(constants.SESSION_COOKIE_NAME)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := parseSessionToken(cookie.Value, []byte(appConfig.SecretKey))
		if err != nil {
			endSession(w)
			next.ServeHTTP(w, r)
			return
		}

		var user User
		if err := db.WithContext(r.Context()).First(&user, "id = ?", claims.Subject).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[AUTH] Session lookup failed for %q: %v", claims.Subject, err)
			}
			endSession(w)
			next.ServeHTTP(w, r)
			return
		}

		// a role change since sign-in ends the session
		if user.Role != claims.Role {
			log.Printf("[AUTH] Session for %q carries role %q, stored role is %q", user.ID, claims.Role, user.Role)
			endSession(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), &user)))
	})
}

// RequireSession redirects anonymous visitors to the login page
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
