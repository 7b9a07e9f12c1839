package handlers

import (
	"net/http"

	"bookstore/internal/models"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both sign-up and login.
type authCredentials struct {
	Email    string `json:"email" example:"reader@example.com"`
	Password string `json:"password" example:"secret123"`
}

// authResponse is returned by signup and login.
type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/user/signup [post]
func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, token, err := h.services.Register(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_up_failed", "email", input.Email, "err", err)
		}
		h.respondError(c, err, "auth_sign_up_failed")
		return
	}

	c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/user/login [post]
func (h *Handler) login(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, token, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_login_failed", "email", input.Email, "err", err)
		}
		h.respondError(c, err, "auth_login_failed")
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}
