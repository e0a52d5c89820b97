package controllers

import (
	"net/http"
	"time"

	"campsite-backend/services"
	"campsite-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ----------------------------------------------------
// POST /api/auth/register
// ----------------------------------------------------

func (ctl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload")
		return
	}

	id, err := ctl.Auth.Register(c.Request.Context(), services.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"message": "Registration successful. Please wait for admin approval.",
		"user_id": id,
	})
}

// ----------------------------------------------------
// POST /api/auth/login
// ----------------------------------------------------

func (ctl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload")
		return
	}

	res, err := ctl.Auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"access_token": res.Token,
		"expires_at":   res.ExpiresAt.UTC().Format(time.RFC3339),
		"user":         toUserResponse(res.User),
	})
}

// ----------------------------------------------------
// GET /api/auth/profile
// ----------------------------------------------------

func (ctl *AuthController) Profile(c *gin.Context) {
	p, err := ctl.Auth.Profile(c.Request.Context(), principal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"user":  toUserResponse(p.User),
		"stats": p.Trips,
	})
}
