package middlewares

import (
	"context"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/blogsphere/blogsphere/model"
	Logger "github.com/blogsphere/blogsphere/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const userKey = "blogsphere/user"

// TokenClaims is the subset of identity-provider claims the backend reads.
type TokenClaims struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// TokenVerifier checks cryptographic validity and expiry of a bearer token
// and returns its claims. The production implementation talks to Firebase;
// tests and -no_auth runs install a fake.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*TokenClaims, error)
}

var verifier TokenVerifier

// Setup initializes all package scoped variables that are needed to perform
// middleware functionalities, the Firebase auth client in particular. This
// function must be called before the Auth middleware is used.
func Setup() {
	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		// Abort directly if Firebase isn't set up successfully, which is
		// crucial for server side authorization.
		Logger.Log.Fatalf("fail to setup Firebase app: %s", err.Error())
	}
	client, err := app.Auth(context.Background())
	if err != nil {
		Logger.Log.Fatalf("fail to setup Firebase auth client: %s", err.Error())
	}
	SetVerifier(&firebaseVerifier{client: client})
}

func SetVerifier(v TokenVerifier) {
	verifier = v
}

type firebaseVerifier struct {
	client *auth.Client
}

func (f *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*TokenClaims, error) {
	tok, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	claims := &TokenClaims{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		claims.Name = name
	}
	if picture, ok := tok.Claims["picture"].(string); ok {
		claims.Picture = picture
	}
	return claims, nil
}

// Auth verifies the bearer token in the Authorization header, lazily
// creates or syncs the local user record, and stores it on the context.
// Requests without a valid token are rejected with 401; blocked accounts
// with 403.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		idToken := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

		claims, err := verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := syncUser(db, claims)
		if err != nil {
			Logger.Log.Errorf("user sync failed for uid %s: %s", claims.UID, err.Error())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "cannot resolve user"})
			return
		}
		if user.Status == model.UserStatusBlocked {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account blocked"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// syncUser resolves the local user for a verified token. A missing record
// is created inside a transaction that re-reads the user count, so the
// first-signup-becomes-admin decision and the insert commit together; the
// unique index on firebase_uid serializes two racing first signups. An
// existing record gets name/email/avatar overwritten from the claims, the
// identity provider being the source of truth for those three fields.
func syncUser(db *gorm.DB, claims *TokenClaims) (*model.User, error) {
	var user model.User
	res := db.Where("firebase_uid = ?", claims.UID).First(&user)
	if res.RowsAffected == 1 {
		updates := map[string]interface{}{}
		if claims.Name != "" && user.Name != claims.Name {
			updates["name"] = claims.Name
		}
		if claims.Email != "" && user.Email != claims.Email {
			updates["email"] = claims.Email
		}
		if claims.Picture != "" && user.AvatarUrl != claims.Picture {
			updates["avatar_url"] = claims.Picture
		}
		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil
	}

	name := claims.Name
	if name == "" {
		name = strings.Split(claims.Email, "@")[0]
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Count(&count).Error; err != nil {
			return err
		}
		role := model.UserRoleUser
		if count == 0 {
			role = model.UserRoleAdmin
		}
		user = model.User{
			Id:          uuid.New().String(),
			FirebaseUID: claims.UID,
			Name:        name,
			Email:       claims.Email,
			AvatarUrl:   claims.Picture,
			Role:        role,
			Status:      model.UserStatusActive,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&model.UserSettings{
			UserID:               user.Id,
			IsPrivate:            false,
			AllowLikes:           true,
			AllowComments:        true,
			ShowFollowerActivity: true,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Maintenance rejects every request with a distinct 503 signal while the
// global maintenance flag is set, except for admin callers. Must run after
// Auth.
func Maintenance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !model.GetBoolSetting(db, model.SettingKeyMaintenanceMode) {
			c.Next()
			return
		}
		if user := CurrentUser(c); user != nil && user.IsAdmin() {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"message":         "service is under maintenance",
			"maintenanceMode": true,
		})
	}
}

// RequireAdmin allows only admin and superadmin callers through.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller stored by Auth, or nil.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}
