package inventory_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/assistencia-api/internal/application/inventory"
	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con transacciones simuladas (snapshot + restore en rollback)
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	parts     map[string]entity.Part
	orders    map[string]entity.ServiceOrder
	items     map[string][]entity.OrderItem
	movements map[string]entity.StockMovement

	adjustCalls int
	failAdjust  map[string]error // partID → error inyectado en AdjustStock
}

func newMemStore() *memStore {
	return &memStore{
		parts:      map[string]entity.Part{},
		orders:     map[string]entity.ServiceOrder{},
		items:      map[string][]entity.OrderItem{},
		movements:  map[string]entity.StockMovement{},
		failAdjust: map[string]error{},
	}
}

func (s *memStore) addPart(id string, stock int) {
	s.parts[id] = entity.Part{ID: id, Name: "pieza " + id, StockQuantity: stock}
}

func (s *memStore) stock(id string) int { return s.parts[id].StockQuantity }

func (s *memStore) persistOrder(o entity.ServiceOrder) {
	items := append([]entity.OrderItem(nil), o.Items...)
	o.Items = nil
	s.orders[o.ID] = o
	s.items[o.ID] = items
}

type snapshot struct {
	parts     map[string]entity.Part
	orders    map[string]entity.ServiceOrder
	items     map[string][]entity.OrderItem
	movements map[string]entity.StockMovement
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		parts:     make(map[string]entity.Part, len(s.parts)),
		orders:    make(map[string]entity.ServiceOrder, len(s.orders)),
		items:     make(map[string][]entity.OrderItem, len(s.items)),
		movements: make(map[string]entity.StockMovement, len(s.movements)),
	}
	for k, v := range s.parts {
		snap.parts[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = append([]entity.OrderItem(nil), v...)
	}
	for k, v := range s.movements {
		snap.movements[k] = v
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.parts, s.orders, s.items, s.movements = snap.parts, snap.orders, snap.items, snap.movements
}

func (s *memStore) repos() inventory.TxRepos {
	return inventory.TxRepos{
		Parts:     &memParts{s},
		Orders:    &memOrders{s},
		Items:     &memItems{s},
		Movements: &memMovements{s},
	}
}

// memTx ejecuta fn y deshace todo si devuelve error.
type memTx struct{ s *memStore }

func (t *memTx) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	snap := t.s.snapshot()
	if err := fn(ctx, t.s.repos()); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

type memParts struct{ s *memStore }

func (r *memParts) Create(_ context.Context, p *entity.Part) error {
	r.s.parts[p.ID] = *p
	return nil
}

func (r *memParts) GetByID(_ context.Context, id string) (*entity.Part, error) {
	p, ok := r.s.parts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memParts) GetForUpdate(ctx context.Context, id string) (*entity.Part, error) {
	return r.GetByID(ctx, id)
}

func (r *memParts) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Part, error) {
	out := make(map[string]*entity.Part, len(ids))
	for _, id := range ids {
		if p, ok := r.s.parts[id]; ok {
			cp := p
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *memParts) List(_ context.Context, _ string, _, _ int) ([]*entity.Part, error) {
	out := make([]*entity.Part, 0, len(r.s.parts))
	for _, p := range r.s.parts {
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memParts) Update(_ context.Context, p *entity.Part) error {
	if _, ok := r.s.parts[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.parts[p.ID] = *p
	return nil
}

func (r *memParts) Delete(_ context.Context, id string) error {
	delete(r.s.parts, id)
	return nil
}

func (r *memParts) AdjustStock(_ context.Context, id string, delta int) (int, error) {
	r.s.adjustCalls++
	if err := r.s.failAdjust[id]; err != nil {
		return 0, err
	}
	p, ok := r.s.parts[id]
	if !ok {
		return 0, &domain.PartNotFoundError{PartID: id}
	}
	if p.StockQuantity+delta < 0 {
		return 0, &domain.InsufficientStockError{PartID: id, Available: p.StockQuantity, Requested: -delta}
	}
	p.StockQuantity += delta
	r.s.parts[id] = p
	return p.StockQuantity, nil
}

func (r *memParts) CountActiveHolders(_ context.Context, id string) (int, error) {
	n := 0
	for orderID, items := range r.s.items {
		if r.s.orders[orderID].Status == entity.OrderStatusCancelled {
			continue
		}
		for _, it := range items {
			if it.HoldsStock() && it.PartID == id {
				n++
			}
		}
	}
	return n, nil
}

type memOrders struct{ s *memStore }

func (r *memOrders) GetByID(_ context.Context, id string) (*entity.ServiceOrder, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *memOrders) GetForUpdate(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *memOrders) List(_ context.Context, status string, _, _ int) ([]*entity.ServiceOrder, error) {
	var out []*entity.ServiceOrder
	for _, o := range r.s.orders {
		if status != "" && o.Status != status {
			continue
		}
		cp := o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memOrders) Upsert(_ context.Context, o *entity.ServiceOrder) error {
	cp := *o
	cp.Items = nil
	r.s.orders[o.ID] = cp
	return nil
}

func (r *memOrders) Delete(_ context.Context, id string) error {
	delete(r.s.orders, id)
	return nil
}

type memItems struct{ s *memStore }

func (r *memItems) ListByOrder(_ context.Context, orderID string) ([]entity.OrderItem, error) {
	return append([]entity.OrderItem(nil), r.s.items[orderID]...), nil
}

func (r *memItems) ReplaceByOrder(_ context.Context, orderID string, items []entity.OrderItem) error {
	r.s.items[orderID] = append([]entity.OrderItem(nil), items...)
	return nil
}

func (r *memItems) DeleteByOrder(_ context.Context, orderID string) error {
	delete(r.s.items, orderID)
	return nil
}

type memMovements struct{ s *memStore }

func (r *memMovements) Find(_ context.Context, reconciliationID, partID string) (*entity.StockMovement, error) {
	m, ok := r.s.movements[reconciliationID+"|"+partID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *memMovements) Record(_ context.Context, m *entity.StockMovement) error {
	key := m.ReconciliationID + "|" + m.PartID
	if _, ok := r.s.movements[key]; ok {
		return domain.ErrDuplicate
	}
	r.s.movements[key] = *m
	return nil
}

func (r *memMovements) ListByPart(_ context.Context, partID string, _, _ int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.PartID == partID {
			cp := m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// recordingPublisher guarda los eventos publicados.
type recordingPublisher struct {
	mu     sync.Mutex
	events []inventory.PartChanged
	err    error
}

func (p *recordingPublisher) PublishPartChanged(_ context.Context, evt inventory.PartChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) partIDs() []string {
	ids := make([]string, 0, len(p.events))
	for _, e := range p.events {
		ids = append(ids, e.PartID)
	}
	return ids
}

// countingMetrics cuenta observaciones por operación/resultado.
type countingMetrics struct {
	reconciliations map[string]int
	adjustments     int
	rejections      int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{reconciliations: map[string]int{}}
}

func (m *countingMetrics) ObserveReconciliation(op, result string) {
	m.reconciliations[op+"/"+result]++
}
func (m *countingMetrics) ObserveAdjustment(int) { m.adjustments++ }
func (m *countingMetrics) ObserveRejection()     { m.rejections++ }
