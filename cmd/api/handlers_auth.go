package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fashionsmith/fashionsmith-api/internal/auth"
	"github.com/fashionsmith/fashionsmith-api/internal/user"
)

type signupRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// signupHandler godoc
// @Summary Register a new customer account
// @Tags users
// @Accept json
// @Produce json
// @Param body body signupRequest true "account details"
// @Success 201 {object} user.Profile
// @Failure 409 {object} product.HTTPError
// @Router /users/signup [post]
func signupHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		u, err := svc.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"error": "username or email already in use"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
			return
		}
		c.JSON(http.StatusCreated, u.Profile())
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// loginHandler godoc
// @Summary Authenticate and receive a session pair
// @Tags users
// @Accept json
// @Produce json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} user.SessionPair
// @Failure 401 {object} product.HTTPError
// @Router /users/login [post]
func loginHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		u, pair, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u.Profile(), "session": pair})
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func refreshHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		pair, err := svc.Refresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			if errors.Is(err, auth.ErrRefreshNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
			return
		}
		c.JSON(http.StatusOK, pair)
	}
}

func logoutHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}
