package controllers

import (
	"github.com/neomdavid/IAX-ROLEX-backend/app/models"
	"github.com/neomdavid/IAX-ROLEX-backend/app/services"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type userView struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Register handles POST /auth/register.
func (ac *AuthController) Register(c *ctx.Context) error {
	var in models.RegisterInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	u, token, err := ac.service.Register(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Created(map[string]any{"user": userView{Name: u.Name, Role: u.Role}, "token": token})
}

// Login handles POST /auth/login.
func (ac *AuthController) Login(c *ctx.Context) error {
	var in models.LoginInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	u, token, err := ac.service.Login(c.Context(), in)
	if err != nil {
		return err
	}
	return c.OK(map[string]any{"user": userView{Name: u.Name, Role: u.Role}, "token": token})
}

// Me handles GET /auth/me.
func (ac *AuthController) Me(c *ctx.Context) error {
	p, ok := c.Principal()
	if !ok {
		return apperr.Unauthenticated("Authentication invalid")
	}
	return c.OK(map[string]any{"user": p})
}
