package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/apierror"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/dto"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/money"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/repository"
)

// defaultCancelReason is recorded when a command is canceled without an
// explicit reason from the caller.
const defaultCancelReason = "canceled without a stated reason"

// TableStatusNotifier is the fire-and-forget sink for table occupancy events.
// Implementations must never fail the calling operation.
type TableStatusNotifier interface {
	PublishTableStatusChanged(ctx context.Context, tableID uuid.UUID)
}

type CommandService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateCommandRequest) (*dto.CommandResponse, error)
	Get(ctx context.Context, actor Actor, commandID uuid.UUID) (*dto.CommandResponse, error)
	List(ctx context.Context, actor Actor, statusKey string, page, limit int) (*dto.CommandListResponse, error)
	ChangeStatus(ctx context.Context, actor Actor, commandID uuid.UUID, req dto.ChangeStatusRequest) (*dto.CommandResponse, error)
	ChangeTable(ctx context.Context, actor Actor, commandID uuid.UUID, req dto.ChangeTableRequest) (*dto.CommandResponse, error)
	AddOrders(ctx context.Context, actor Actor, commandID uuid.UUID, req dto.AddOrdersRequest) ([]dto.OrderResponse, error)
	ListOrders(ctx context.Context, actor Actor, commandID uuid.UUID) ([]dto.OrderResponse, error)
	CancelOrder(ctx context.Context, actor Actor, orderID uuid.UUID) error
}

type commandService struct {
	repo     repository.CommandRepository
	orders   repository.OrderRepository
	tables   repository.TableRepository
	products repository.ProductRepository
	statuses repository.StatusRepository
	notifier TableStatusNotifier
}

func NewCommandService(
	repo repository.CommandRepository,
	orders repository.OrderRepository,
	tables repository.TableRepository,
	products repository.ProductRepository,
	statuses repository.StatusRepository,
	notifier TableStatusNotifier,
) CommandService {
	return &commandService{
		repo:     repo,
		orders:   orders,
		tables:   tables,
		products: products,
		statuses: statuses,
		notifier: notifier,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Create ───────────────────────────────────────────────────────────────────

func (s *commandService) Create(ctx context.Context, actor Actor, req dto.CreateCommandRequest) (*dto.CommandResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apierror.Validation("command name cannot be blank")
	}

	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		return nil, apierror.Validation("invalid table_id")
	}
	table, err := s.tables.FindByPublicID(ctx, tableID)
	if err != nil {
		return nil, apierror.NotFound("table not found")
	}
	if table.CompanyID != actor.CompanyID {
		return nil, apierror.BusinessRule("table belongs to another company")
	}

	open, err := s.statuses.FindByKey(ctx, model.StatusOpen)
	if err != nil {
		return nil, apierror.NotFound("status OPEN is not registered")
	}

	people := req.PeopleCount
	if people < 1 {
		people = 1
	}
	cmd := &model.Command{
		Name:        strings.TrimSpace(req.Name),
		TableID:     table.ID,
		EmployeeID:  actor.EmployeeID,
		PeopleCount: people,
		StatusID:    open.ID,
		CompanyID:   actor.CompanyID,
	}
	cmd.CreatedBy = &actor.EmployeePublicID

	if err := s.repo.Create(ctx, nil, cmd); err != nil {
		return nil, err
	}
	cmd.Table = table
	cmd.Status = open

	s.notifier.PublishTableStatusChanged(ctx, table.PublicID)
	return commandToResponse(cmd), nil
}

// ── Get / List ───────────────────────────────────────────────────────────────

func (s *commandService) Get(ctx context.Context, actor Actor, commandID uuid.UUID) (*dto.CommandResponse, error) {
	cmd, err := s.loadCommand(ctx, actor, commandID)
	if err != nil {
		return nil, err
	}
	return commandToResponse(cmd), nil
}

func (s *commandService) List(ctx context.Context, actor Actor, statusKey string, page, limit int) (*dto.CommandListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	key := model.StatusKey(statusKey)
	if statusKey != "" && !key.Valid() {
		return nil, apierror.Validation("unknown status " + statusKey)
	}

	commands, total, err := s.repo.ListByStatus(ctx, actor.CompanyID, key, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CommandResponse, 0, len(commands))
	for i := range commands {
		items = append(items, *commandToResponse(&commands[i]))
	}
	return &dto.CommandListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

// ── ChangeStatus ─────────────────────────────────────────────────────────────
// Transition legality is decided by the pure state machine first; per-target
// preconditions are applied after, and the write happens inside a single
// transaction together with any forced order closes. The table notification
// goes out only after the commit.

func (s *commandService) ChangeStatus(ctx context.Context, actor Actor, commandID uuid.UUID, req dto.ChangeStatusRequest) (*dto.CommandResponse, error) {
	target := model.StatusKey(req.TargetStatus)
	if !target.Valid() {
		return nil, apierror.Validation("unknown status " + req.TargetStatus)
	}

	cmd, err := s.loadCommand(ctx, actor, commandID)
	if err != nil {
		return nil, err
	}

	current := cmd.StatusKey()
	if !model.CanTransition(current, target) {
		return nil, apierror.BusinessRule(fmt.Sprintf("status transition %s -> %s is not allowed", current, target))
	}

	switch target {
	case model.StatusClosed:
		if !req.CloseAllOrders {
			allTerminal, err := s.orders.AllTerminal(ctx, cmd.ID)
			if err != nil {
				return nil, err
			}
			if !allTerminal {
				return nil, apierror.BusinessRule("command has open orders")
			}
		}
	case model.StatusCanceled:
		reason := defaultCancelReason
		if req.CancelReason != nil && strings.TrimSpace(*req.CancelReason) != "" {
			reason = strings.TrimSpace(*req.CancelReason)
		}
		cmd.CancelReason = &reason
		cmd.CanceledBy = &actor.EmployeePublicID
	}

	statusRow, err := s.statuses.FindByKey(ctx, target)
	if err != nil {
		return nil, apierror.NotFound("status " + string(target) + " is not registered")
	}
	cmd.StatusID = statusRow.ID
	cmd.Touch(actor.EmployeePublicID)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if target == model.StatusClosed && req.CloseAllOrders {
			if err := s.orders.CloseAll(ctx, tx, cmd.ID, actor.EmployeePublicID); err != nil {
				return err
			}
		}
		return s.repo.Save(ctx, tx, cmd)
	})
	if txErr != nil {
		return nil, txErr
	}
	cmd.Status = statusRow

	if cmd.Table != nil {
		s.notifier.PublishTableStatusChanged(ctx, cmd.Table.PublicID)
	}
	return commandToResponse(cmd), nil
}

// ── ChangeTable ──────────────────────────────────────────────────────────────

func (s *commandService) ChangeTable(ctx context.Context, actor Actor, commandID uuid.UUID, req dto.ChangeTableRequest) (*dto.CommandResponse, error) {
	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		return nil, apierror.Validation("invalid table_id")
	}

	cmd, err := s.loadCommand(ctx, actor, commandID)
	if err != nil {
		return nil, err
	}

	target, err := s.tables.FindByPublicID(ctx, tableID)
	if err != nil {
		return nil, apierror.NotFound("table not found")
	}

	// Same-table moves are rejected before anything else, regardless of the
	// command's state.
	if target.ID == cmd.TableID {
		return nil, apierror.BusinessRule("command is already at this table")
	}
	if target.CompanyID != cmd.CompanyID {
		return nil, apierror.BusinessRule("table belongs to another company")
	}
	if cmd.StatusKey() != model.StatusOpen {
		return nil, apierror.BusinessRule("command is not open")
	}

	vacated := cmd.Table
	cmd.TableID = target.ID
	cmd.Touch(actor.EmployeePublicID)

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Save(ctx, tx, cmd)
	}); err != nil {
		return nil, err
	}
	cmd.Table = target

	// One event per affected table: the one freed and the one now occupied.
	if vacated != nil {
		s.notifier.PublishTableStatusChanged(ctx, vacated.PublicID)
	}
	s.notifier.PublishTableStatusChanged(ctx, target.PublicID)

	return commandToResponse(cmd), nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

// AddOrders places req.Quantity units of a product on an OPEN command. One
// order row per unit; each row captures the product's price at this moment.
// The command's stored total moves together with the orders in the same
// transaction so bill reconciliation stays exact.
func (s *commandService) AddOrders(ctx context.Context, actor Actor, commandID uuid.UUID, req dto.AddOrdersRequest) ([]dto.OrderResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("invalid product_id")
	}

	cmd, err := s.loadCommand(ctx, actor, commandID)
	if err != nil {
		return nil, err
	}
	if cmd.StatusKey() != model.StatusOpen {
		return nil, apierror.BusinessRule("command is not open")
	}

	product, err := s.products.FindByPublicID(ctx, productID, actor.CompanyID)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}
	if !product.Active {
		return nil, apierror.BusinessRule("product " + product.Name + " is inactive")
	}

	unit, err := money.New(product.Price)
	if err != nil {
		return nil, apierror.BusinessRule("product " + product.Name + " has an invalid price")
	}

	price := unit.Decimal()
	orders := make([]model.Order, req.Quantity)
	for i := range orders {
		orders[i] = model.Order{
			CommandID:        cmd.ID,
			ProductID:        product.ID,
			BasePriceAtOrder: &price,
			Status:           model.OrderOpen,
		}
		orders[i].CreatedBy = &actor.EmployeePublicID
	}

	// Total arithmetic stays in money.Amount so a negative running total is
	// unrepresentable, not merely unchecked.
	current := money.Zero()
	if cmd.TotalAmount != nil {
		if current, err = money.New(*cmd.TotalAmount); err != nil {
			return nil, apierror.BusinessRule("command total is corrupted")
		}
	}
	total := current.Add(unit.MulInt(int64(req.Quantity))).Decimal()
	cmd.TotalAmount = &total
	cmd.Touch(actor.EmployeePublicID)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.orders.CreateBatch(ctx, tx, orders); err != nil {
			return err
		}
		return s.repo.Save(ctx, tx, cmd)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		orders[i].Product = product
		resp = append(resp, *orderToResponse(&orders[i]))
	}
	return resp, nil
}

func (s *commandService) ListOrders(ctx context.Context, actor Actor, commandID uuid.UUID) ([]dto.OrderResponse, error) {
	cmd, err := s.loadCommand(ctx, actor, commandID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByCommand(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, *orderToResponse(&orders[i]))
	}
	return resp, nil
}

// CancelOrder voids a single open order and subtracts its captured price from
// the command's stored total.
func (s *commandService) CancelOrder(ctx context.Context, actor Actor, orderID uuid.UUID) error {
	order, err := s.orders.FindByPublicID(ctx, orderID)
	if err != nil {
		return apierror.NotFound("order not found")
	}
	if order.Terminal() {
		return apierror.BusinessRule("order is already " + strings.ToLower(order.Status))
	}

	cmd, err := s.findByInternalID(ctx, actor, order.CommandID)
	if err != nil {
		return err
	}
	if cmd.StatusKey() != model.StatusOpen {
		return apierror.BusinessRule("command is not open")
	}

	if order.BasePriceAtOrder != nil && cmd.TotalAmount != nil {
		current, err := money.New(*cmd.TotalAmount)
		if err != nil {
			return apierror.BusinessRule("command total is corrupted")
		}
		captured, err := money.New(*order.BasePriceAtOrder)
		if err != nil {
			return apierror.BusinessRule("order " + order.PublicID.String() + " has an invalid captured price")
		}
		total, err := money.New(current.Sub(captured))
		if err != nil {
			return apierror.BusinessRule("canceling this order would drive the command total negative")
		}
		d := total.Decimal()
		cmd.TotalAmount = &d
	}
	order.Status = model.OrderCanceled
	order.Touch(actor.EmployeePublicID)
	cmd.Touch(actor.EmployeePublicID)

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.orders.UpdateStatus(ctx, tx, order); err != nil {
			return err
		}
		return s.repo.Save(ctx, tx, cmd)
	})
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *commandService) loadCommand(ctx context.Context, actor Actor, commandID uuid.UUID) (*model.Command, error) {
	cmd, err := s.repo.FindByPublicID(ctx, commandID, actor.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("command not found")
		}
		return nil, err
	}
	return cmd, nil
}

// findByInternalID loads a command reached from a child row (which only
// carries the internal id), still scoped to the actor's company.
func (s *commandService) findByInternalID(ctx context.Context, actor Actor, id uint) (*model.Command, error) {
	cmd, err := s.repo.FindByID(ctx, id, actor.CompanyID)
	if err != nil {
		return nil, apierror.NotFound("command not found")
	}
	return cmd, nil
}

func commandToResponse(c *model.Command) *dto.CommandResponse {
	tableID := ""
	tableName := ""
	if c.Table != nil {
		tableID = c.Table.PublicID.String()
		tableName = c.Table.Name
	}
	status := string(c.StatusKey())
	return &dto.CommandResponse{
		ID:             c.PublicID.String(),
		Name:           c.Name,
		TableID:        tableID,
		TableName:      tableName,
		Status:         status,
		PeopleCount:    c.PeopleCount,
		TotalAmount:    c.TotalAmount,
		DiscountAmount: c.DiscountAmount,
		CancelReason:   c.CancelReason,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
	}
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	productID := ""
	productName := ""
	if o.Product != nil {
		productID = o.Product.PublicID.String()
		productName = o.Product.Name
	}
	return &dto.OrderResponse{
		ID:        o.PublicID.String(),
		ProductID: productID,
		Product:   productName,
		BasePrice: o.BasePriceAtOrder,
		Status:    o.Status,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}
