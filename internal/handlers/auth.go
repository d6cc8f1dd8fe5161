package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"meetup-service/internal/auth"
	"meetup-service/internal/observability"
	"meetup-service/internal/repositories"
	"meetup-service/internal/telemetry"
)

// AuthHandler manages signup, login and session restore.
type AuthHandler struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
	audit    *telemetry.AuditEmitter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(userRepo repositories.UserRepository, tokens *auth.TokenManager, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, tokens: tokens, audit: audit}
}

// Signup handles POST /users.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	errs := map[string]string{}
	if req.FirstName == "" {
		errs["firstName"] = "First name is required"
	}
	if req.LastName == "" {
		errs["lastName"] = "Last name is required"
	}
	if len(req.Username) < 4 {
		errs["username"] = "Username must be 4 characters or more"
	}
	if !strings.Contains(req.Email, "@") {
		errs["email"] = "Invalid email"
	}
	if len(req.Password) < 6 {
		errs["password"] = "Password must be 6 characters or more"
	}
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondServerError(c)
		return
	}

	user, err := h.userRepo.CreateUser(c.Request.Context(), req.FirstName, req.LastName, req.Username, req.Email, hashed)
	if errors.Is(err, repositories.ErrUserExists) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "User already exists",
			"errors":  map[string]string{"email": "User with that email or username already exists"},
		})
		return
	}
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error")
		respondServerError(c)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		respondServerError(c)
		return
	}

	h.emitAudit(c, "INFO", "User signed up from "+observability.IPFromRequest(c.Request))
	c.JSON(http.StatusCreated, gin.H{
		"id":        user.ID,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"username":  user.Username,
		"email":     user.Email,
		"token":     token,
	})
}

// Login handles POST /session. The credential may be an email or username.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Credential string `json:"credential"`
		Password   string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if req.Credential == "" || req.Password == "" {
		respondValidation(c, map[string]string{"credential": "Credential and password are required"})
		return
	}

	user, err := h.userRepo.GetUserByCredential(c.Request.Context(), req.Credential)
	if errors.Is(err, repositories.ErrUserNotFound) || (err == nil && !auth.CheckPassword(user.HashedPassword, req.Password)) {
		h.emitAudit(c, "ERROR", "failed login from "+observability.IPFromRequest(c.Request))
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if err != nil {
		respondServerError(c)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		respondServerError(c)
		return
	}

	h.emitAudit(c, "INFO", "User logged in from "+observability.IPFromRequest(c.Request))
	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"username":  user.Username,
		"email":     user.Email,
		"token":     token,
	})
}

// Restore handles GET /session, returning the authenticated user.
func (h *AuthHandler) Restore(c *gin.Context) {
	userID := c.GetInt("userID")
	user, err := h.userRepo.GetUser(c.Request.Context(), userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		respondNotFound(c, "User couldn't be found")
		return
	}
	if err != nil {
		respondServerError(c)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c), nil)
}
