package main

import (
	"net/http"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/gin-gonic/gin"
)

type SignUpInput struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
}

type SignInInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) signUp(c *gin.Context) {
	var input SignUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.bindError(c, err)
		return
	}

	token, user, err := s.authService.SignUp(c.Request.Context(), input.Email, input.Password, input.DisplayName)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"token": token,
		"user":  user,
	}})
}

func (s *Server) signIn(c *gin.Context) {
	var input SignInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.bindError(c, err)
		return
	}

	token, user, err := s.authService.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"token": token,
		"user":  user,
	}})
}

func (s *Server) adminSignIn(c *gin.Context) {
	var input SignInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.bindError(c, err)
		return
	}

	token, user, err := s.authService.SignInAdmin(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"token": token,
		"user":  user,
	}})
}

func (s *Server) signOut(c *gin.Context) {
	if err := s.authService.SignOut(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	user := scheduler.UserFromContext(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"user":    user,
		"isAdmin": user.IsAdmin(),
	}})
}
