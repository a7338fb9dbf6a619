package app

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"socialnet/internal/service"
	"socialnet/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService service.AuthService
	jwtSecret   string
}

func NewAuthHandler(authService service.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   jwtSecret,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, registerValidationMessage(err))
		return
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "User registered successfully", gin.H{
		"token": resp.Token,
		"user":  resp.User,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		util.Unauthorized(c, "Invalid credentials")
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Login successful", gin.H{
		"token": resp.Token,
		"user":  resp.User,
	})
}

// GetMe returns the authenticated user
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "User retrieved successfully", gin.H{"user": user})
}

// GetUserByUsername resolves a username to a user
// GET /api/v1/users/username/:username
func (h *AuthHandler) GetUserByUsername(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		util.BadRequest(c, "Username is required")
		return
	}

	user, err := h.authService.GetUserByUsername(username)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "User retrieved successfully", gin.H{"user": user})
}

// SearchUsers searches users by username or full name
// GET /api/v1/users/search?q=...
func (h *AuthHandler) SearchUsers(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		util.BadRequest(c, "Search query is required")
		return
	}

	limit, offset := paginationParams(c, 20)

	users, err := h.authService.SearchUsers(keyword, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Users retrieved successfully", gin.H{"users": users})
}

// AuthMiddleware validates the bearer token and stores the user identity on
// the request context.
func (h *AuthHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			util.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], h.jwtSecret)
		if err != nil {
			util.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// registerValidationMessage maps binding errors to user-friendly messages.
func registerValidationMessage(err error) string {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		for _, fieldErr := range validationErr {
			switch fieldErr.Field() {
			case "Username":
				if fieldErr.Tag() == "min" || fieldErr.Tag() == "max" {
					return "Username must be between 3 and 50 characters"
				}
				return "Username is required"
			case "Email":
				return "A valid email address is required"
			case "Password":
				if fieldErr.Tag() == "min" {
					return "Password must be at least 8 characters"
				}
				return "Password is required"
			case "FullName":
				return "Full name is required"
			}
		}
	}
	return err.Error()
}

// paginationParams reads limit/offset query parameters with sane bounds.
func paginationParams(c *gin.Context, defaultLimit int) (int, int) {
	limit := defaultLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	offset := 0
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
