package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kmroja/QuickBite-backend/models"
	"github.com/kmroja/QuickBite-backend/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// Auth resolves bearer tokens to user documents. A single Auth value is
// shared by every protected route.
type Auth struct {
	Users *mongo.Collection
}

// NewAuth creates the authentication middleware backed by the users
// collection.
func NewAuth(client *mongo.Client) *Auth {
	return &Auth{Users: utils.Collection(client, "users")}
}

// Require verifies the JWT on the request, loads the referenced user
// and, when a role set is given, rejects callers whose role is not in
// it. On success the user document is attached to the request context.
//
// Missing or invalid credentials yield 401; an insufficient role yields
// 403. This is the only place role checks happen, handlers layer
// resource-ownership checks on top of the user it attaches.
func (a *Auth) Require(roles ...string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.Error(w, http.StatusUnauthorized, "No token provided")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.Error(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			claims, err := utils.ParseJWT(parts[1])
			if err != nil {
				utils.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				utils.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			var user models.User
			if err := a.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
				utils.Error(w, http.StatusUnauthorized, "Invalid token user")
				return
			}

			if len(roles) > 0 {
				allowed := false
				for _, role := range roles {
					if user.Role == role {
						allowed = true
						break
					}
				}
				if !allowed {
					utils.Error(w, http.StatusForbidden, "Access denied: insufficient role")
					return
				}
			}

			reqCtx := context.WithValue(r.Context(), UserContextKey, &user)
			next.ServeHTTP(w, r.WithContext(reqCtx))
		})
	}
}

// CurrentUser returns the authenticated user attached by Require.
func CurrentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	return user, ok
}

// WithUser returns a copy of ctx carrying the given user, as Require
// would attach it. Exported for handler tests.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}
