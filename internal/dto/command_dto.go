package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCommandRequest struct {
	Name        string `json:"name"         validate:"required,min=1"`
	TableID     string `json:"table_id"     validate:"required,uuid"`
	PeopleCount int    `json:"people_count" validate:"min=1"`
}

type ChangeStatusRequest struct {
	TargetStatus   string  `json:"target_status"    validate:"required,oneof=OPEN PAYING CLOSED CANCELED"`
	CloseAllOrders bool    `json:"close_all_orders"`
	CancelReason   *string `json:"cancel_reason"`
}

type ChangeTableRequest struct {
	TableID string `json:"table_id" validate:"required,uuid"`
}

type AddOrdersRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CommandResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	TableID        string           `json:"table_id"`
	TableName      string           `json:"table_name,omitempty"`
	Status         string           `json:"status"`
	PeopleCount    int              `json:"people_count"`
	TotalAmount    *decimal.Decimal `json:"total_amount"`
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"`
	CancelReason   *string          `json:"cancel_reason,omitempty"`
	CreatedAt      string           `json:"created_at"`
	UpdatedAt      string           `json:"updated_at"`
}

type OrderResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Product   string           `json:"product,omitempty"`
	BasePrice *decimal.Decimal `json:"base_price"`
	Status    string           `json:"status"`
	CreatedAt string           `json:"created_at"`
}

type CommandListResponse struct {
	Data  []CommandResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
