package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fashionsmith/fashionsmith-api/internal/httpx"
	"github.com/fashionsmith/fashionsmith-api/internal/notification"
)

// listNotificationsHandler godoc
// @Summary Caller's notifications with unread count
// @Tags notifications
// @Produce json
// @Router /notifications [get]
func listNotificationsHandler(repo notification.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		items, unread, err := repo.ListByUser(c.Request.Context(), httpx.UserID(c), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list notifications"})
			return
		}
		if items == nil {
			items = []notification.Notification{}
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "unread": unread})
	}
}

func markNotificationReadHandler(repo notification.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := repo.MarkRead(c.Request.Context(), c.Param("id"), httpx.UserID(c))
		if err != nil {
			if errors.Is(err, notification.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update notification"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "marked read"})
	}
}

func markAllReadHandler(repo notification.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.MarkAllRead(c.Request.Context(), httpx.UserID(c)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update notifications"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "all marked read"})
	}
}

func deleteNotificationHandler(repo notification.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"), httpx.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete notification"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
	}
}
