package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/pkg/auth"
	"github.com/eventnest/eventnest/pkg/response"
	"github.com/eventnest/eventnest/pkg/session"
	"gorm.io/gorm"
)

type userKey struct{}

// Authenticate resolves the current user, if any, and stores it on the
// request context. Browser traffic authenticates via the session cookie;
// API clients via a Bearer JWT. The middleware never rejects — gating is
// RequireAuth's and RequireStaff's job — so public pages can still show
// user-aware chrome.
func Authenticate(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := resolve(db, r); user != nil {
				r = r.WithContext(context.WithValue(r.Context(), userKey{}, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolve(db *gorm.DB, r *http.Request) *models.User {
	if id, ok := session.FromCtx(r).UserID(); ok {
		var user models.User
		if err := db.First(&user, id).Error; err == nil {
			return &user
		}
		return nil
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" || token == r.Header.Get("Authorization") {
		return nil
	}
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return nil
	}
	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		return nil
	}
	return &user
}

// UserFrom returns the authenticated user placed by Authenticate.
func UserFrom(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(userKey{}).(*models.User)
	return u, ok
}

// RequireAuth rejects requests with no authenticated user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFrom(r); !ok {
			response.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff rejects requests unless the user is a staff account.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r)
		if !ok {
			response.Unauthorized(w)
			return
		}
		if !user.Staff {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
