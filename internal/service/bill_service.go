package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/apierror"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/dto"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/money"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/repository"
)

type BillService interface {
	// BuildBill is a read-only projection over persisted orders: safe to call
	// repeatedly, safe to retry, and deterministic — unchanged data yields an
	// identical bill.
	BuildBill(ctx context.Context, actor Actor, commandID uuid.UUID) (*dto.BillResponse, error)
}

type billService struct {
	commands repository.CommandRepository
	orders   repository.OrderRepository
}

func NewBillService(commands repository.CommandRepository, orders repository.OrderRepository) BillService {
	return &billService{commands: commands, orders: orders}
}

// lineKey groups orders into billable line items. Two physically identical
// products ordered at different captured prices stay separate lines, keeping
// historical pricing fidelity on the printed bill.
type lineKey struct {
	productID uint
	price     string
}

func (s *billService) BuildBill(ctx context.Context, actor Actor, commandID uuid.UUID) (*dto.BillResponse, error) {
	cmd, err := s.commands.FindByPublicID(ctx, commandID, actor.CompanyID)
	if err != nil {
		return nil, apierror.NotFound("command not found")
	}

	orders, err := s.orders.ListByCommand(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	// Canceled orders never reach the bill.
	billable := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status != model.OrderCanceled {
			billable = append(billable, o)
		}
	}
	if len(billable) == 0 {
		return nil, apierror.BusinessRule("command has no orders to bill")
	}

	if cmd.TotalAmount == nil || !cmd.TotalAmount.IsPositive() {
		return nil, apierror.BusinessRule("command total is missing or not positive")
	}

	// Group by (product, captured price), preserving first-seen order so the
	// bill is byte-identical across calls on unchanged data.
	groups := make(map[lineKey][]*model.Order)
	var keys []lineKey
	for i := range billable {
		o := &billable[i]
		if o.BasePriceAtOrder == nil {
			// The legacy behavior silently substituted the product's current
			// price here; that hides data corruption, so it fails instead.
			return nil, apierror.BusinessRule("order " + o.PublicID.String() + " has no captured price")
		}
		k := lineKey{productID: o.ProductID, price: o.BasePriceAtOrder.String()}
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], o)
	}

	items := make([]dto.BillItem, 0, len(keys))
	sum := money.Zero()
	for _, k := range keys {
		group := groups[k]
		first := group[0]
		// money.New re-validates the captured price: a negative or sub-cent
		// value in the orders table is corruption, not a billable line.
		unit, err := money.New(*first.BasePriceAtOrder)
		if err != nil {
			return nil, apierror.BusinessRule("order " + first.PublicID.String() + " has an invalid captured price")
		}
		qty := int64(len(group))
		lineTotal := unit.MulInt(qty)
		sum = sum.Add(lineTotal)

		productID := ""
		productName := ""
		if first.Product != nil {
			productID = first.Product.PublicID.String()
			productName = first.Product.Name
		}
		items = append(items, dto.BillItem{
			ProductID: productID,
			Product:   productName,
			UnitPrice: unit.Decimal(),
			Quantity:  qty,
			Total:     lineTotal.Decimal(),
		})
	}

	// Exact equality against the stored total: a mismatched bill is an error,
	// never silently served.
	if !sum.Decimal().Equal(*cmd.TotalAmount) {
		return nil, apierror.BusinessRule(
			"bill total " + sum.String() + " does not match command total " + cmd.TotalAmount.StringFixed(2))
	}

	resp := &dto.BillResponse{Items: items, Total: sum.Decimal()}
	resp.Command = dto.BillCommandSummary{
		ID:          cmd.PublicID.String(),
		Name:        cmd.Name,
		PeopleCount: cmd.PeopleCount,
	}
	if cmd.Table != nil {
		resp.Command.TableName = cmd.Table.Name
	}
	if cmd.Company != nil {
		resp.Company = dto.BillCompanySummary{
			ID:   cmd.Company.PublicID.String(),
			Name: cmd.Company.Name,
		}
	}
	return resp, nil
}
