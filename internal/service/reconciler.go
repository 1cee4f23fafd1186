package service

import (
	"github.com/shopspring/decimal"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/money"
)

// Reconciliation is the arithmetic outcome of closing a cash session.
// FinalBalanceDifference is signed: positive means surplus in the drawer,
// negative means shortage.
type Reconciliation struct {
	FinalBalance           decimal.Decimal
	FinalBalanceExpected   decimal.Decimal
	FinalBalanceDifference decimal.Decimal
}

// Reconcile computes the closing balances from the opening float, the four
// blind-counted amounts and the expected cash movement the caller derived
// from the shift's recorded sales. Pure function over exact decimals — the
// non-negativity and two-decimal rules are already enforced by money.Amount
// construction, so no rounding happens here.
func Reconcile(opening, cash, card, pix, others money.Amount, expectedMovement decimal.Decimal) Reconciliation {
	final := cash.Add(card).Add(pix).Add(others)
	expected := opening.Decimal().Add(expectedMovement)
	return Reconciliation{
		FinalBalance:           final.Decimal(),
		FinalBalanceExpected:   expected,
		FinalBalanceDifference: final.Decimal().Sub(expected),
	}
}
