package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"invoice_server/internal/middleware"
	"invoice_server/internal/model"
	"invoice_server/internal/repository"
	"invoice_server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Helper to get the authenticated principal from context
func getPrincipal(c *gin.Context) (model.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return p, ok
}

// scopeFor returns the ownership filter for per-user routes.
func scopeFor(c *gin.Context) (repository.OwnerFilter, bool) {
	p, ok := getPrincipal(c)
	if !ok {
		return repository.OwnerFilter{}, false
	}
	return repository.OwnerFilterFor(p), true
}

// respondError maps service errors onto status codes. Anything unexpected is
// logged and reported as failedMsg.
func respondError(c *gin.Context, logger *logrus.Logger, err error, notFoundMsg, failedMsg string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrWrongPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrInvalidOTP):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired OTP"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error(failedMsg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failedMsg})
	}
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return false
	}
	return true
}

// digits binds a JSON string or number to its literal text. Mobile clients
// send phone numbers and codes either way.
type digits string

func (d *digits) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = digits(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*d = digits(n.String())
	return nil
}
