package controllers

import (
	"errors"

	"github.com/shashiranjanraj/storefront/app/resources"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type loginInput struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges a username and password for a bearer token.
func (c *AuthController) Login(cx *ctx.Context) {
	var in loginInput
	if !cx.BindJSON(&in) {
		return
	}

	token, user, err := c.service.Login(cx.Context(), in.Username, in.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		cx.Unauthorized("Invalid credentials")
		return
	}
	if err != nil {
		fail(cx, err)
		return
	}

	cx.Success(map[string]any{
		"token": token,
		"user":  resources.User(*user),
	})
}

// Me echoes the identity carried by the bearer token.
func (c *AuthController) Me(cx *ctx.Context) {
	claims, ok := middleware.ClaimsFromCtx(cx.Context())
	if !ok {
		cx.Unauthorized()
		return
	}
	cx.Success(map[string]any{
		"id":       claims.UserID,
		"username": claims.Username,
		"role":     claims.Role,
	})
}
