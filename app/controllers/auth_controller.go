package controllers

import (
	"github.com/shashiranjanraj/brewandco/app/services"
	"github.com/shashiranjanraj/brewandco/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// POST /api/auth/register
func (ac *AuthController) Register(c *ctx.Context) {
	var input services.RegisterInput
	if !c.Decode(&input) {
		return
	}
	res, err := ac.service.Register(c.Context(), input)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("User registered successfully", res)
}

// POST /api/auth/login
func (ac *AuthController) Login(c *ctx.Context) {
	var input services.LoginInput
	if !c.Decode(&input) {
		return
	}
	res, err := ac.service.Login(c.Context(), input)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Login successful", res)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *ctx.Context) {
	claims, _ := c.Claims()
	user, err := ac.service.Me(c.Context(), claims.UserID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(user)
}

// PUT /api/auth/profile
func (ac *AuthController) UpdateProfile(c *ctx.Context) {
	var input services.ProfileInput
	if !c.Decode(&input) {
		return
	}
	claims, _ := c.Claims()
	user, err := ac.service.UpdateProfile(c.Context(), claims.UserID, input)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Profile updated successfully", user)
}

// POST /api/admin/login
func (ac *AuthController) AdminLogin(c *ctx.Context) {
	var input services.LoginInput
	if !c.Decode(&input) {
		return
	}
	res, err := ac.service.AdminLogin(c.Context(), input)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Admin login successful", res)
}

// GET /api/admin/verify
func (ac *AuthController) AdminVerify(c *ctx.Context) {
	claims, _ := c.Claims()
	c.Success(map[string]any{"admin": ac.service.AdminVerify(claims)})
}
