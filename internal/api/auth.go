package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pentyflix/pentyflix-api/internal/auth"
)

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// register handles POST /api/auth/register
func (r *Router) register(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, statusResponse{
			Status:  "Error",
			Message: "Username, email and password are required",
		})
		return
	}

	if err := r.authSvc.Register(c.Request.Context(), in); err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			c.JSON(http.StatusBadRequest, statusResponse{
				Status:  "Error",
				Message: "User already exists!",
			})
			return
		}
		r.logger.Error("register failed", zap.String("username", in.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, statusResponse{
			Status:  "Error",
			Message: "User creation failed! Please check user details and try again.",
		})
		return
	}

	c.JSON(http.StatusOK, statusResponse{
		Status:  "Success",
		Message: "User created successfully!",
	})
}

// login handles POST /api/auth/login
func (r *Router) login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, statusResponse{
			Status:  "Error",
			Message: "Username and password are required",
		})
		return
	}

	result, err := r.authSvc.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, statusResponse{
				Status:  "Error",
				Message: "Invalid username or password",
			})
			return
		}
		r.logger.Error("login failed", zap.String("username", in.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, statusResponse{
			Status:  "Error",
			Message: "Login failed! Please try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
