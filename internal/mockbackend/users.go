package mockbackend

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		s.logger.Warn(c.Request.Context(), "login rejected", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	token, err := GenerateToken(u, s.secret, s.tokenTTL, s.clock.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.logger.Info(c.Request.Context(), "login", "username", u.Username, "role", u.Role)
	c.JSON(http.StatusOK, models.LoginResponse{Token: token, User: u})
}

func (s *Server) listUsers(c *gin.Context) {
	c.JSON(http.StatusOK, models.UsersList{Users: s.store.Users()})
}

func (s *Server) createUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := s.store.AddUser(req.Username, req.Password, req.Email, req.Role); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

func (s *Server) resetPassword(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.SetPassword(id, req.NewPassword); err != nil {
		userError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (s *Server) setUserActive(active bool) gin.HandlerFunc {
	msg := "User disabled successfully"
	if active {
		msg = "User enabled successfully"
	}
	return func(c *gin.Context) {
		id, ok := userID(c)
		if !ok {
			return
		}
		if err := s.store.SetActive(id, active); err != nil {
			userError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteUser(id); err != nil {
		userError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (s *Server) changePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := claimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User authentication required"})
		return
	}

	if err := s.store.ChangePassword(claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid current password"})
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// userID parses the :id parameter, answering 400 when it is not a number.
func userID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return 0, false
	}
	return id, true
}

func userError(c *gin.Context, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
