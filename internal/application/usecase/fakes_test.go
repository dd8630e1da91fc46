package usecase_test

import (
	"context"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/application/inventory"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
	invdomain "github.com/jhoicas/assistencia-api/internal/domain/inventory"
)

type fakeParts struct {
	parts   map[string]*entity.Part
	holders map[string]int
	lists   int
	locked  []string
}

// fakeTx ejecuta fn con los repositorios en memoria; sin rollback, los tests solo miran el resultado.
type fakeTx struct {
	parts *fakeParts
	runs  int
}

func (t *fakeTx) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	t.runs++
	return fn(ctx, inventory.TxRepos{Parts: t.parts})
}

func newFakeParts() *fakeParts {
	return &fakeParts{parts: map[string]*entity.Part{}, holders: map[string]int{}}
}

func (f *fakeParts) Create(_ context.Context, p *entity.Part) error {
	cp := *p
	f.parts[p.ID] = &cp
	return nil
}

func (f *fakeParts) GetByID(_ context.Context, id string) (*entity.Part, error) {
	p, ok := f.parts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeParts) GetForUpdate(ctx context.Context, id string) (*entity.Part, error) {
	f.locked = append(f.locked, id)
	return f.GetByID(ctx, id)
}

func (f *fakeParts) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Part, error) {
	out := map[string]*entity.Part{}
	for _, id := range ids {
		if p, _ := f.GetByID(ctx, id); p != nil {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeParts) List(_ context.Context, _ string, _, _ int) ([]*entity.Part, error) {
	f.lists++
	out := make([]*entity.Part, 0, len(f.parts))
	for _, p := range f.parts {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeParts) Update(_ context.Context, p *entity.Part) error {
	cp := *p
	f.parts[p.ID] = &cp
	return nil
}

func (f *fakeParts) Delete(_ context.Context, id string) error {
	delete(f.parts, id)
	return nil
}

func (f *fakeParts) AdjustStock(_ context.Context, id string, delta int) (int, error) {
	p := f.parts[id]
	p.StockQuantity += delta
	return p.StockQuantity, nil
}

func (f *fakeParts) CountActiveHolders(_ context.Context, id string) (int, error) {
	return f.holders[id], nil
}

type fakeCache struct {
	pages       map[string]*dto.PartListResponse
	invalidated int
	err         error
}

func newFakeCache() *fakeCache { return &fakeCache{pages: map[string]*dto.PartListResponse{}} }

func (c *fakeCache) GetList(_ context.Context, search string, _, _ int) (*dto.PartListResponse, bool) {
	p, ok := c.pages[search]
	return p, ok
}

func (c *fakeCache) SetList(_ context.Context, search string, _, _ int, page *dto.PartListResponse) {
	c.pages[search] = page
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.invalidated++
	if c.err != nil {
		return c.err
	}
	c.pages = map[string]*dto.PartListResponse{}
	return nil
}

type fakePublisher struct{ events []inventory.PartChanged }

func (p *fakePublisher) PublishPartChanged(_ context.Context, evt inventory.PartChanged) error {
	p.events = append(p.events, evt)
	return nil
}

type fakeOrders struct{ orders map[string]*entity.ServiceOrder }

func (f *fakeOrders) GetByID(_ context.Context, id string) (*entity.ServiceOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) GetForUpdate(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeOrders) List(_ context.Context, status string, _, _ int) ([]*entity.ServiceOrder, error) {
	var out []*entity.ServiceOrder
	for _, o := range f.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) Upsert(_ context.Context, o *entity.ServiceOrder) error {
	cp := *o
	cp.Items = nil
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrders) Delete(_ context.Context, id string) error {
	delete(f.orders, id)
	return nil
}

type fakeItems struct{ items map[string][]entity.OrderItem }

func (f *fakeItems) ListByOrder(_ context.Context, id string) ([]entity.OrderItem, error) {
	return append([]entity.OrderItem(nil), f.items[id]...), nil
}

func (f *fakeItems) ReplaceByOrder(_ context.Context, id string, items []entity.OrderItem) error {
	f.items[id] = append([]entity.OrderItem(nil), items...)
	return nil
}

func (f *fakeItems) DeleteByOrder(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

type fakeCustomers struct{ customers map[string]*entity.Customer }

func (f *fakeCustomers) Create(_ context.Context, c *entity.Customer) error {
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return f.customers[id], nil
}

func (f *fakeCustomers) GetByDocument(_ context.Context, doc string) (*entity.Customer, error) {
	for _, c := range f.customers {
		if c.Document == doc {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomers) List(_ context.Context, _, _ int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomers) Update(_ context.Context, c *entity.Customer) error {
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomers) Delete(_ context.Context, id string) error {
	delete(f.customers, id)
	return nil
}

type fakeTechnicians struct{ technicians map[string]*entity.Technician }

func (f *fakeTechnicians) Create(_ context.Context, t *entity.Technician) error {
	f.technicians[t.ID] = t
	return nil
}

func (f *fakeTechnicians) GetByID(_ context.Context, id string) (*entity.Technician, error) {
	return f.technicians[id], nil
}

func (f *fakeTechnicians) List(_ context.Context, _ bool, _, _ int) ([]*entity.Technician, error) {
	return nil, nil
}

func (f *fakeTechnicians) Update(_ context.Context, t *entity.Technician) error {
	f.technicians[t.ID] = t
	return nil
}

func (f *fakeTechnicians) Delete(_ context.Context, id string) error {
	delete(f.technicians, id)
	return nil
}

// fakeReconciler guarda la orden sin tocar stock y registra las entradas recibidas.
type fakeReconciler struct {
	orders  *fakeOrders
	items   *fakeItems
	saves   []inventory.SaveInput
	deletes []string
	err     error
}

func (r *fakeReconciler) ReconcileOnSave(ctx context.Context, in inventory.SaveInput) (*inventory.SaveResult, error) {
	r.saves = append(r.saves, in)
	if r.err != nil {
		return nil, r.err
	}
	var original []entity.OrderItem
	if in.OriginalStatus != entity.OrderStatusCancelled {
		original = in.OriginalItems
	}
	var updated []entity.OrderItem
	if in.Order.HoldsStock() {
		updated = in.Order.Items
	}
	adjustments := invdomain.Diff(original, updated)
	stock := map[string]int{}
	for _, a := range adjustments {
		stock[a.PartID] = 100 + a.Delta
	}
	_ = r.orders.Upsert(ctx, in.Order)
	_ = r.items.ReplaceByOrder(ctx, in.Order.ID, in.Order.Items)
	return &inventory.SaveResult{ReconciliationID: in.ReconciliationID, Adjustments: adjustments, Stock: stock}, nil
}

func (r *fakeReconciler) ReconcileOnDelete(_ context.Context, id string) error {
	r.deletes = append(r.deletes, id)
	return r.err
}
