package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fashionsmith/fashionsmith-api/internal/httpx"
	"github.com/fashionsmith/fashionsmith-api/internal/measurement"
	"github.com/fashionsmith/fashionsmith-api/internal/user"
)

// getProfileHandler godoc
// @Summary Current user's profile
// @Tags users
// @Produce json
// @Success 200 {object} user.Profile
// @Router /users/profile [get]
func getProfileHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := repo.GetByID(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusOK, u.Profile())
	}
}

func updateProfileHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.UpdateProfileInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		u, err := svc.UpdateProfile(c.Request.Context(), httpx.UserID(c), in)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
			return
		}
		c.JSON(http.StatusOK, u.Profile())
	}
}

func deleteProfileHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete account"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
	}
}

// getMeasurementHandler godoc
// @Summary Current user's measurement set
// @Tags measurements
// @Produce json
// @Success 200 {object} measurement.Set
// @Failure 404 {object} product.HTTPError
// @Router /users/getMeasurement [get]
func getMeasurementHandler(repo measurement.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := repo.Get(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no measurement set on file"})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func bindMeasurement(c *gin.Context) (*measurement.Set, bool) {
	var s measurement.Set
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	s.UserID = httpx.UserID(c)
	if err := s.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return &s, true
}

func addMeasurementHandler(repo measurement.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := bindMeasurement(c)
		if !ok {
			return
		}
		if err := repo.Create(c.Request.Context(), s); err != nil {
			if errors.Is(err, measurement.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"error": "measurement set already exists, use update"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save measurements"})
			return
		}
		c.JSON(http.StatusCreated, s)
	}
}

func updateMeasurementHandler(repo measurement.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := bindMeasurement(c)
		if !ok {
			return
		}
		if err := repo.Update(c.Request.Context(), s); err != nil {
			if errors.Is(err, measurement.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no measurement set on file"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update measurements"})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func removeMeasurementHandler(repo measurement.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete measurements"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no measurement set on file"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "measurements deleted"})
	}
}
