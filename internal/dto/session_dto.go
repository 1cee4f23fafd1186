package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type StartSessionRequest struct {
	OpeningValue decimal.Decimal `json:"opening_value" validate:"min=0"`
	Notes        *string         `json:"notes"`
}

// CloseSessionRequest carries the blind count per payment method plus the
// expected cash movement derived by the caller from the sales recorded during
// the shift. ExpectedCashMovement is signed (refunds can make it negative).
type CloseSessionRequest struct {
	CountedCash          decimal.Decimal `json:"counted_cash"           validate:"min=0"`
	CountedCard          decimal.Decimal `json:"counted_card"           validate:"min=0"`
	CountedPix           decimal.Decimal `json:"counted_pix"            validate:"min=0"`
	CountedOthers        decimal.Decimal `json:"counted_others"         validate:"min=0"`
	ExpectedCashMovement decimal.Decimal `json:"expected_cash_movement"`
	Observations         *string         `json:"observations"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClosingResponse struct {
	ID                     string          `json:"id"`
	CountedCash            decimal.Decimal `json:"counted_cash"`
	CountedCard            decimal.Decimal `json:"counted_card"`
	CountedPix             decimal.Decimal `json:"counted_pix"`
	CountedOthers          decimal.Decimal `json:"counted_others"`
	FinalBalance           decimal.Decimal `json:"final_balance"`
	FinalBalanceExpected   decimal.Decimal `json:"final_balance_expected"`
	FinalBalanceDifference decimal.Decimal `json:"final_balance_difference"`
	Observations           *string         `json:"observations"`
}

type SessionResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	OpeningValue decimal.Decimal `json:"opening_value"`
	Notes        *string         `json:"notes"`
	StartedAt    string          `json:"started_at"`
	EndedAt      *string         `json:"ended_at"`
	Closing      *ClosingResponse `json:"closing,omitempty"`
}

type SessionListResponse struct {
	Data  []SessionResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
