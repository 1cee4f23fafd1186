package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/dto"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/service"
)

type CommandHandler struct {
	svc  service.CommandService
	auth service.AuthService
}

func NewCommandHandler(svc service.CommandService, auth service.AuthService) *CommandHandler {
	return &CommandHandler{svc: svc, auth: auth}
}

// Create godoc
// @Summary Opens a new command on a table
// @Tags commands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateCommandRequest true "Command data"
// @Success 201 {object} dto.CommandResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/commands [post]
func (h *CommandHandler) Create(c *gin.Context) {
	var req dto.CreateCommandRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary Returns a command by its public id
// @Tags commands
// @Produce json
// @Security BearerAuth
// @Param id path string true "Command id"
// @Success 200 {object} dto.CommandResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/commands/{id} [get]
func (h *CommandHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List returns the company's commands, filterable by status key.
func (h *CommandHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	status := c.DefaultQuery("status", "OPEN")
	if status == "all" {
		status = ""
	}
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), actor, status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ChangeStatus godoc
// @Summary Applies a status transition to a command
// @Tags commands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Command id"
// @Param body body dto.ChangeStatusRequest true "Target status"
// @Success 200 {object} dto.CommandResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/commands/{id}/status [patch]
func (h *CommandHandler) ChangeStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	resp, err := h.svc.ChangeStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ChangeTable godoc
// @Summary Moves a command to another table
// @Tags commands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Command id"
// @Param body body dto.ChangeTableRequest true "Target table"
// @Success 200 {object} dto.CommandResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/commands/{id}/table [patch]
func (h *CommandHandler) ChangeTable(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	resp, err := h.svc.ChangeTable(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddOrders places one or more units of a product on the command.
func (h *CommandHandler) AddOrders(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AddOrdersRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	resp, err := h.svc.AddOrders(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListOrders returns every order row of the command, oldest first.
func (h *CommandHandler) ListOrders(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	resp, err := h.svc.ListOrders(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CancelOrder voids a single order row.
func (h *CommandHandler) CancelOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	if err := h.svc.CancelOrder(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
