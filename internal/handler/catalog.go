package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/repository"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/service"
)

// CatalogHandler serves the read-only reference data clients need to open
// commands: the table map and the product menu.
type CatalogHandler struct {
	tables   repository.TableRepository
	products repository.ProductRepository
	auth     service.AuthService
}

func NewCatalogHandler(tables repository.TableRepository, products repository.ProductRepository, auth service.AuthService) *CatalogHandler {
	return &CatalogHandler{tables: tables, products: products, auth: auth}
}

func (h *CatalogHandler) ListTables(c *gin.Context) {
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	tables, err := h.tables.ListByCompany(c.Request.Context(), actor.CompanyID)
	if err != nil {
		respondError(c, err)
		return
	}
	type tableItem struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Number int    `json:"number"`
	}
	items := make([]tableItem, 0, len(tables))
	for _, t := range tables {
		items = append(items, tableItem{ID: t.PublicID.String(), Name: t.Name, Number: t.Number})
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	actor, ok := currentActor(c, h.auth)
	if !ok {
		return
	}
	products, err := h.products.ListByCompany(c.Request.Context(), actor.CompanyID, true)
	if err != nil {
		respondError(c, err)
		return
	}
	type productItem struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Price string `json:"price"`
	}
	items := make([]productItem, 0, len(products))
	for _, p := range products {
		items = append(items, productItem{ID: p.PublicID.String(), Name: p.Name, Price: p.Price.StringFixed(2)})
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
