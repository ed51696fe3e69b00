package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/validation"
)

func (h *handler) login(c *gin.Context) {
	var req validation.LoginRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	id, err := h.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, id)
}

func (h *handler) signup(c *gin.Context) {
	var req validation.SignupRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	id, err := h.Sessions.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, id)
}

func (h *handler) logout(c *gin.Context) {
	h.Sessions.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *handler) me(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, id)
}
