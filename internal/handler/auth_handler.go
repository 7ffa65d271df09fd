package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/jwt"

	"github.com/shoebot/storefront/internal/store"
)

// registerRequest is the registration payload
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginRequest is the login payload
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse is the account info returned by the auth endpoints
type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at,omitempty"`
}

func toUserResponse(u *store.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// AuthHandler handles registration and login
type AuthHandler struct {
	users          *store.UserStore
	authMiddleware *jwt.HertzJWTMiddleware
	logger         *slog.Logger
}

// NewAuthHandler creates the auth handler and its JWT middleware
func NewAuthHandler(users *store.UserStore, jwtSecret string, logger *slog.Logger) *AuthHandler {
	authMiddleware, err := jwt.New(&jwt.HertzJWTMiddleware{
		Realm:       "storefront",
		Key:         []byte(jwtSecret),
		Timeout:     time.Hour * 24,
		MaxRefresh:  time.Hour * 24 * 7,
		IdentityKey: "user_id",

		// Login authentication logic
		Authenticator: func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
			var loginReq loginRequest
			if err := c.BindJSON(&loginReq); err != nil {
				return nil, jwt.ErrMissingLoginValues
			}

			user, err := users.Authenticate(loginReq.Username, loginReq.Password)
			if err != nil {
				logger.Error("login failed", "username", loginReq.Username, "error", err)
				return nil, jwt.ErrFailedAuthentication
			}

			// Stash the account for LoginResponse
			c.Set("user", user)
			return user, nil
		},

		// Token payload
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if user, ok := data.(*store.User); ok {
				return jwt.MapClaims{
					"user_id":  user.ID,
					"username": user.Username,
				}
			}
			return jwt.MapClaims{}
		},

		// Extract identity from token
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)
			if userID, ok := claims["user_id"].(string); ok {
				c.Set("user_id", userID)
				return userID
			}
			return ""
		},

		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			return data != nil
		},

		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(code, map[string]interface{}{
				"code":    "UNAUTHORIZED",
				"message": message,
			})
		},

		LoginResponse: func(ctx context.Context, c *app.RequestContext, code int, token string, expire time.Time) {
			user, exists := c.Get("user")
			if !exists {
				c.JSON(consts.StatusInternalServerError, map[string]interface{}{
					"code":    "INTERNAL_ERROR",
					"message": "failed to get user info",
				})
				return
			}
			account := user.(*store.User)

			c.JSON(consts.StatusOK, map[string]interface{}{
				"code":    "SUCCESS",
				"message": "login successful",
				"data": map[string]interface{}{
					"token":  token,
					"expire": expire.Format(time.RFC3339),
					"user":   toUserResponse(account),
				},
			})
		},

		TokenLookup:   "header: Authorization, query: token",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
	})

	if err != nil {
		logger.Error("failed to create jwt middleware", "error", err)
		panic(err)
	}

	return &AuthHandler{
		users:          users,
		authMiddleware: authMiddleware,
		logger:         logger,
	}
}

// AuthMiddleware returns the JWT middleware for route protection
func (h *AuthHandler) AuthMiddleware() app.HandlerFunc {
	return h.authMiddleware.MiddlewareFunc()
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(ctx context.Context, c *app.RequestContext) {
	var req registerRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("invalid register request", "error", err)
		ErrorResponse(c, store.ErrInvalidInput)
		return
	}

	user, err := h.users.Register(req.Username, req.Password)
	if err != nil {
		h.logger.Error("register failed", "error", err)
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, toUserResponse(user))
}

// Login handles POST /api/auth/login via the JWT LoginHandler
func (h *AuthHandler) Login(ctx context.Context, c *app.RequestContext) {
	h.authMiddleware.LoginHandler(ctx, c)
}

// RefreshToken handles POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(ctx context.Context, c *app.RequestContext) {
	h.authMiddleware.RefreshHandler(ctx, c)
}
