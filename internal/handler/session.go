package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/dto"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/service"
)

type SessionHandler struct {
	svc  service.SessionService
	auth service.AuthService
}

func NewSessionHandler(svc service.SessionService, auth service.AuthService) *SessionHandler {
	return &SessionHandler{svc: svc, auth: auth}
}

// Start godoc
// @Summary Opens a new cash session for the company
// @Tags cash-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.StartSessionRequest true "Opening data"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cash-sessions [post]
func (h *SessionHandler) Start(c *gin.Context) {
	var req dto.StartSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	resp, err := h.svc.Start(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Closes a cash session with a blind count and reconciles it
// @Tags cash-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session id"
// @Param body body dto.CloseSessionRequest true "Counted amounts"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cash-sessions/{id}/close [post]
func (h *SessionHandler) Close(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetActive returns the company's currently open cash session.
func (h *SessionHandler) GetActive(c *gin.Context) {
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	resp, err := h.svc.GetActive(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List returns a paginated history of the company's cash sessions.
func (h *SessionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), actor, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
