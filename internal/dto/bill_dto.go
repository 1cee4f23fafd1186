package dto

import "github.com/shopspring/decimal"

// BillItem is one billable line: orders of the same product captured at the
// same price, collapsed into quantity × unit price.
type BillItem struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

type BillCommandSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TableName   string `json:"table_name"`
	PeopleCount int    `json:"people_count"`
}

type BillCompanySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BillResponse struct {
	Command BillCommandSummary `json:"command"`
	Company BillCompanySummary `json:"company"`
	Items   []BillItem         `json:"items"`
	Total   decimal.Decimal    `json:"total"`
}
