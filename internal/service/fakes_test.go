package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/apierror"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/repository"
)

// ── In-memory fakes ──────────────────────────────────────────────────────────

type fakeCommandRepo struct {
	mu       sync.Mutex
	commands map[uint]*model.Command
	nextID   uint

	// failNextSave simulates a lost optimistic-lock race on the next Save.
	failNextSave bool
}

func newFakeCommandRepo() *fakeCommandRepo {
	return &fakeCommandRepo{commands: make(map[uint]*model.Command)}
}

func (r *fakeCommandRepo) Create(_ context.Context, _ *gorm.DB, c *model.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	c.PublicID = uuid.New()
	c.Version = 1
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.commands[c.ID] = c
	return nil
}

func (r *fakeCommandRepo) FindByPublicID(_ context.Context, publicID uuid.UUID, companyID uint) (*model.Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.commands {
		if c.PublicID == publicID && c.CompanyID == companyID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCommandRepo) FindByID(_ context.Context, id uint, companyID uint) (*model.Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.commands[id]
	if !ok || c.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCommandRepo) Save(_ context.Context, _ *gorm.DB, c *model.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNextSave {
		r.failNextSave = false
		return apierror.Conflict("command was modified concurrently, reload and retry")
	}
	c.Version++
	c.UpdatedAt = time.Now()
	r.commands[c.ID] = c
	return nil
}

func (r *fakeCommandRepo) ListByStatus(_ context.Context, companyID uint, statusKey model.StatusKey, page, limit int) ([]model.Command, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Command
	for _, c := range r.commands {
		if c.CompanyID != companyID {
			continue
		}
		if statusKey != "" && c.StatusKey() != statusKey {
			continue
		}
		all = append(all, *c)
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeCommandRepo) SoftDelete(_ context.Context, c *model.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, c.ID)
	return nil
}

func (r *fakeCommandRepo) DB() *gorm.DB { return nil }

var _ repository.CommandRepository = (*fakeCommandRepo)(nil)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []*model.Order
	nextID uint

	// failNextUpdate simulates a lost optimistic-lock race on the next
	// UpdateStatus.
	failNextUpdate bool
}

func newFakeOrderRepo() *fakeOrderRepo { return &fakeOrderRepo{} }

func (r *fakeOrderRepo) CreateBatch(_ context.Context, _ *gorm.DB, orders []model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range orders {
		r.nextID++
		orders[i].ID = r.nextID
		orders[i].PublicID = uuid.New()
		orders[i].Version = 1
		orders[i].CreatedAt = time.Now()
		o := orders[i]
		r.orders = append(r.orders, &o)
	}
	return nil
}

func (r *fakeOrderRepo) ListByCommand(_ context.Context, commandID uint) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Order
	for _, o := range r.orders {
		if o.CommandID == commandID {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) AllTerminal(_ context.Context, commandID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.CommandID == commandID && !o.Terminal() {
			return false, nil
		}
	}
	return true, nil
}

func (r *fakeOrderRepo) CloseAll(_ context.Context, _ *gorm.DB, commandID uint, actor uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.CommandID == commandID && o.Status == model.OrderOpen {
			o.Status = model.OrderClosed
			o.UpdatedBy = &actor
		}
	}
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, _ *gorm.DB, upd *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNextUpdate {
		r.failNextUpdate = false
		return apierror.Conflict("order was modified concurrently, reload and retry")
	}
	for _, o := range r.orders {
		if o.ID == upd.ID && o.Version == upd.Version {
			o.Status = upd.Status
			o.UpdatedBy = upd.UpdatedBy
			o.Version++
			upd.Version++
			return nil
		}
	}
	return apierror.Conflict("order was modified concurrently, reload and retry")
}

func (r *fakeOrderRepo) FindByPublicID(_ context.Context, publicID uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.PublicID == publicID {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.OrderRepository = (*fakeOrderRepo)(nil)

type fakeTableRepo struct {
	tables []*model.Table
}

func (r *fakeTableRepo) FindByPublicID(_ context.Context, publicID uuid.UUID) (*model.Table, error) {
	for _, t := range r.tables {
		if t.PublicID == publicID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTableRepo) FindByID(_ context.Context, id uint) (*model.Table, error) {
	for _, t := range r.tables {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTableRepo) ListByCompany(_ context.Context, companyID uint) ([]model.Table, error) {
	var result []model.Table
	for _, t := range r.tables {
		if t.CompanyID == companyID {
			result = append(result, *t)
		}
	}
	return result, nil
}

var _ repository.TableRepository = (*fakeTableRepo)(nil)

type fakeProductRepo struct {
	products []*model.Product
}

func (r *fakeProductRepo) FindByPublicID(_ context.Context, publicID uuid.UUID, companyID uint) (*model.Product, error) {
	for _, p := range r.products {
		if p.PublicID == publicID && p.CompanyID == companyID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) ListByCompany(_ context.Context, companyID uint, activeOnly bool) ([]model.Product, error) {
	var result []model.Product
	for _, p := range r.products {
		if p.CompanyID != companyID {
			continue
		}
		if activeOnly && !p.Active {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

type fakeStatusRepo struct {
	rows map[model.StatusKey]*model.CommandStatus
}

func newFakeStatusRepo() *fakeStatusRepo {
	rows := make(map[model.StatusKey]*model.CommandStatus, len(model.AllStatusKeys))
	for i, key := range model.AllStatusKeys {
		rows[key] = &model.CommandStatus{ID: uint(i + 1), Key: key, Name: string(key)}
	}
	return &fakeStatusRepo{rows: rows}
}

func (r *fakeStatusRepo) FindByKey(_ context.Context, key model.StatusKey) (*model.CommandStatus, error) {
	row, ok := r.rows[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

var _ repository.StatusRepository = (*fakeStatusRepo)(nil)

// fakeNotifier records published table events for assertions.
type fakeNotifier struct {
	mu     sync.Mutex
	events []uuid.UUID
}

func (n *fakeNotifier) PublishTableStatusChanged(_ context.Context, tableID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, tableID)
}

var _ TableStatusNotifier = (*fakeNotifier)(nil)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uint]*model.Session
	nextID   uint

	// dupOnCreate simulates the partial unique index on open sessions
	// rejecting a racing insert.
	dupOnCreate bool
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uint]*model.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, _ *gorm.DB, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dupOnCreate {
		r.dupOnCreate = false
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	s.ID = r.nextID
	s.PublicID = uuid.New()
	s.Version = 1
	s.CreatedAt = time.Now()
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) FindActiveByCompany(_ context.Context, _ *gorm.DB, companyID uint) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.CompanyID == companyID && s.Status == model.SessionOpen {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) FindByPublicID(_ context.Context, publicID uuid.UUID, companyID uint) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.PublicID == publicID && s.CompanyID == companyID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) Save(_ context.Context, _ *gorm.DB, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.Version++
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) List(_ context.Context, companyID uint, page, limit int) ([]model.Session, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Session
	for _, s := range r.sessions {
		if s.CompanyID == companyID {
			all = append(all, *s)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeSessionRepo) DB() *gorm.DB { return nil }

var _ repository.SessionRepository = (*fakeSessionRepo)(nil)

type fakeClosingRepo struct {
	mu       sync.Mutex
	closings []*model.Closing
	nextID   uint
}

func newFakeClosingRepo() *fakeClosingRepo { return &fakeClosingRepo{} }

func (r *fakeClosingRepo) Create(_ context.Context, _ *gorm.DB, c *model.Closing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	c.PublicID = uuid.New()
	c.CreatedAt = time.Now()
	r.closings = append(r.closings, c)
	return nil
}

func (r *fakeClosingRepo) FindBySession(_ context.Context, sessionID uint) (*model.Closing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.closings {
		if c.SessionID == sessionID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.ClosingRepository = (*fakeClosingRepo)(nil)
