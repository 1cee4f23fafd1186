package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/infra"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/service"
)

type BillHandler struct {
	svc         service.BillService
	auth        service.AuthService
	storagePath string
}

func NewBillHandler(svc service.BillService, auth service.AuthService, storagePath string) *BillHandler {
	return &BillHandler{svc: svc, auth: auth, storagePath: storagePath}
}

// Get godoc
// @Summary Builds the bill for a command
// @Tags bills
// @Produce json
// @Security BearerAuth
// @Param id path string true "Command id"
// @Success 200 {object} dto.BillResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/commands/{id}/bill [get]
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	resp, err := h.svc.BuildBill(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF renders the bill as a thermal-receipt-style PDF and streams it back.
func (h *BillHandler) PDF(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	bill, err := h.svc.BuildBill(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := infra.GenerateBillPDF(bill, h.storagePath)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.FileAttachment(path, "bill_"+bill.Command.ID+".pdf")
}
