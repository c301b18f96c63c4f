// Package memory implementa los puertos de persistencia sobre mapas en
// memoria con transacciones copy-on-write. Lo usan las pruebas de los casos
// de uso: cada Run trabaja sobre una copia del estado y solo la publica si
// fn termina sin error, igual que el Commit/Rollback del adaptador postgres.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// state agrupa las tablas mutables cubiertas por transacciones.
type state struct {
	stock        map[string]*entity.StockRecord // clave itemID|locationID
	movements    []*entity.StockMovement
	requisitions map[string]*entity.Requisition // clave RequisitionNo
	counters     map[int]int                    // consecutivo por año
}

func newState() *state {
	return &state{
		stock:        map[string]*entity.StockRecord{},
		requisitions: map[string]*entity.Requisition{},
		counters:     map[int]int{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.stock {
		rec := *v
		c.stock[k] = &rec
	}
	c.movements = make([]*entity.StockMovement, len(s.movements))
	for i, m := range s.movements {
		mov := *m
		c.movements[i] = &mov
	}
	for k, v := range s.requisitions {
		c.requisitions[k] = cloneRequisition(v)
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	return c
}

func cloneRequisition(r *entity.Requisition) *entity.Requisition {
	c := *r
	c.Items = append([]entity.RequisitionItem(nil), r.Items...)
	return &c
}

func stockKey(itemID, locationID string) string { return itemID + "|" + locationID }

// page aplica limit/offset sobre un slice ya ordenado.
func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

// Store contiene el estado compartido. El mutex serializa las transacciones
// completas: el equivalente en memoria del bloqueo de fila de postgres.
type Store struct {
	mu          sync.Mutex   // serializa transacciones sobre state
	cmu         sync.RWMutex // catálogo, fuera del ámbito transaccional
	state       *state
	items       map[string]*entity.Item
	locations   map[string]*entity.Location
	departments map[string]*entity.Department
	users       map[string]*entity.User
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		state:       newState(),
		items:       map[string]*entity.Item{},
		locations:   map[string]*entity.Location{},
		departments: map[string]*entity.Department{},
		users:       map[string]*entity.User{},
	}
}

// Run implementa stock.TxRunner.
func (s *Store) Run(_ context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.state.clone()
	if err := fn(&stockRepo{st: tx}, &movementRepo{st: tx}); err != nil {
		return err
	}
	s.state = tx
	return nil
}

// RunRequisition implementa requisition.TxRunner.
func (s *Store) RunRequisition(_ context.Context, fn func(
	reqRepo repository.RequisitionRepository,
	stRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.state.clone()
	if err := fn(&requisitionRepo{st: tx}, &stockRepo{st: tx}, &movementRepo{st: tx}); err != nil {
		return err
	}
	s.state = tx
	return nil
}

// Stock, Movements y Requisitions exponen lecturas sobre el estado
// confirmado; Items, Locations, Departments, Users y LowStock cubren el
// catálogo, que no es transaccional.
func (s *Store) Stock() repository.StockRepository              { return &stockRepo{store: s} }
func (s *Store) Movements() repository.StockMovementRepository  { return &movementRepo{store: s} }
func (s *Store) Requisitions() repository.RequisitionRepository { return &requisitionRepo{store: s} }
func (s *Store) Items() repository.ItemRepository               { return &itemRepo{s: s} }
func (s *Store) Locations() repository.LocationRepository       { return &locationRepo{s: s} }
func (s *Store) Departments() repository.DepartmentRepository   { return &departmentRepo{s: s} }
func (s *Store) Users() repository.UserRepository               { return &userRepo{s: s} }
func (s *Store) LowStock() repository.LowStockRepository        { return &lowStockRepo{s: s} }

// resolve devuelve el estado de la tx si el repo está atado a una, o el
// confirmado del store. unlock debe llamarse siempre.
func resolve(st *state, store *Store) (*state, func()) {
	if store != nil {
		store.mu.Lock()
		return store.state, store.mu.Unlock
	}
	return st, func() {}
}

// ── stock ────────────────────────────────────────────────────────────────────

type stockRepo struct {
	st    *state
	store *Store // no nil solo para lecturas fuera de tx
}

var _ repository.StockRepository = (*stockRepo)(nil)

func (r *stockRepo) Get(itemID, locationID string) (*entity.StockRecord, error) {
	st, unlock := resolve(r.st, r.store)
	defer unlock()
	if rec, ok := st.stock[stockKey(itemID, locationID)]; ok {
		c := *rec
		return &c, nil
	}
	return &entity.StockRecord{ItemID: itemID, LocationID: locationID}, nil
}

func (r *stockRepo) GetForUpdate(itemID, locationID string) (*entity.StockRecord, error) {
	// La tx entera corre bajo el mutex del store: no hay lock por fila.
	return r.Get(itemID, locationID)
}

func (r *stockRepo) Upsert(record *entity.StockRecord) error {
	st, unlock := resolve(r.st, r.store)
	defer unlock()
	c := *record
	st.stock[stockKey(record.ItemID, record.LocationID)] = &c
	return nil
}

func (r *stockRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockRecord, error) {
	st, unlock := resolve(r.st, r.store)
	defer unlock()
	var out []*entity.StockRecord
	for _, rec := range st.stock {
		if rec.LocationID == locationID {
			c := *rec
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return page(out, limit, offset), nil
}

func (r *stockRepo) ListByItem(itemID string) ([]*entity.StockRecord, error) {
	st, unlock := resolve(r.st, r.store)
	defer unlock()
	var out []*entity.StockRecord
	for _, rec := range st.stock {
		if rec.ItemID == itemID {
			c := *rec
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

// ── historial ────────────────────────────────────────────────────────────────

type movementRepo struct {
	st    *state
	store *Store
}

var _ repository.StockMovementRepository = (*movementRepo)(nil)

func (r *movementRepo) Create(movement *entity.StockMovement) error {
	st, unlock := resolve(r.st, r.store)
	defer unlock()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	c := *movement
	st.movements = append(st.movements, &c)
	return nil
}

func (r *movementRepo) list(filter func(*entity.StockMovement) bool, from, to *time.Time, limit, offset int) []*entity.StockMovement {
	st, unlock := resolve(r.st, r.store)
	defer unlock()
	var out []*entity.StockMovement
	for _, m := range st.movements {
		if !filter(m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset)
}

func (r *movementRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool { return m.ItemID == itemID }, from, to, limit, offset), nil
}

func (r *movementRepo) ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool { return m.LocationID == locationID }, from, to, limit, offset), nil
}

// ── requisiciones ────────────────────────────────────────────────────────────

type requisitionRepo struct {
	st    *state
	store *Store
}

var _ repository.RequisitionRepository = (*requisitionRepo)(nil)

func (r *requisitionRepo) NextRequisitionNo(year int) (string, error) {
	st, unlock := resolve(r.st, r.store)
	defer unlock()
	st.counters[year]++
	return fmt.Sprintf("REQ-%d-%06d", year, st.counters[year]), nil
}

func (r *requisitionRepo) Create(req *entity.Requisition) error {
	st, unlock := resolve(r.st, r.store)
	defer unlock()
	if _, ok := st.requisitions[req.RequisitionNo]; ok {
		return domain.ErrDuplicate
	}
	st.requisitions[req.RequisitionNo] = cloneRequisition(req)
	return nil
}

func (r *requisitionRepo) GetByNo(requisitionNo string) (*entity.Requisition, error) {
	st, unlock := resolve(r.st, r.store)
	defer unlock()
	if req, ok := st.requisitions[requisitionNo]; ok {
		return cloneRequisition(req), nil
	}
	return nil, nil
}

func (r *requisitionRepo) GetByNoForUpdate(requisitionNo string) (*entity.Requisition, error) {
	return r.GetByNo(requisitionNo)
}

func (r *requisitionRepo) Update(req *entity.Requisition) error {
	st, unlock := resolve(r.st, r.store)
	defer unlock()
	stored, ok := st.requisitions[req.RequisitionNo]
	if !ok {
		return domain.ErrNotFound
	}
	c := cloneRequisition(req)
	c.Items = append([]entity.RequisitionItem(nil), stored.Items...) // Update no toca renglones
	st.requisitions[req.RequisitionNo] = c
	return nil
}

func (r *requisitionRepo) ReplaceItems(requisitionID string, items []entity.RequisitionItem) error {
	st, unlock := resolve(r.st, r.store)
	defer unlock()
	for no, req := range st.requisitions {
		if req.ID == requisitionID {
			c := cloneRequisition(req)
			c.Items = append([]entity.RequisitionItem(nil), items...)
			st.requisitions[no] = c
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *requisitionRepo) listSorted(filter func(*entity.Requisition) bool, limit, offset int) []*entity.Requisition {
	st, unlock := resolve(r.st, r.store)
	defer unlock()
	var out []*entity.Requisition
	for _, req := range st.requisitions {
		if filter(req) {
			out = append(out, cloneRequisition(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset)
}

func (r *requisitionRepo) ListByDepartment(departmentID, status string, limit, offset int) ([]*entity.Requisition, error) {
	return r.listSorted(func(req *entity.Requisition) bool {
		if req.DepartmentID != departmentID {
			return false
		}
		return status == "" || string(req.Status) == status
	}, limit, offset), nil
}

func (r *requisitionRepo) ListByRequester(userID string, limit, offset int) ([]*entity.Requisition, error) {
	return r.listSorted(func(req *entity.Requisition) bool {
		return req.RequestedByUserID == userID
	}, limit, offset), nil
}

// ── catálogo ─────────────────────────────────────────────────────────────────
// El catálogo usa su propio mutex: los casos de uso lo consultan también
// dentro de una transacción del ledger y no debe contender con ella.

type itemRepo struct{ s *Store }

var _ repository.ItemRepository = (*itemRepo)(nil)

func (r *itemRepo) Create(item *entity.Item) error {
	r.s.cmu.Lock()
	defer r.s.cmu.Unlock()
	c := *item
	r.s.items[item.ID] = &c
	return nil
}

func (r *itemRepo) GetByID(id string) (*entity.Item, error) {
	r.s.cmu.RLock()
	defer r.s.cmu.RUnlock()
	if item, ok := r.s.items[id]; ok {
		c := *item
		return &c, nil
	}
	return nil, nil
}

func (r *itemRepo) Update(item *entity.Item) error { return r.Create(item) }

func (r *itemRepo) List(limit, offset int) ([]*entity.Item, error) {
	r.s.cmu.RLock()
	defer r.s.cmu.RUnlock()
	var out []*entity.Item
	for _, item := range r.s.items {
		c := *item
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

type locationRepo struct{ s *Store }

var _ repository.LocationRepository = (*locationRepo)(nil)

func (r *locationRepo) Create(location *entity.Location) error {
	r.s.cmu.Lock()
	defer r.s.cmu.Unlock()
	c := *location
	r.s.locations[location.ID] = &c
	return nil
}

func (r *locationRepo) GetByID(id string) (*entity.Location, error) {
	r.s.cmu.RLock()
	defer r.s.cmu.RUnlock()
	if loc, ok := r.s.locations[id]; ok {
		c := *loc
		return &c, nil
	}
	return nil, nil
}

func (r *locationRepo) Update(location *entity.Location) error { return r.Create(location) }

func (r *locationRepo) List(limit, offset int) ([]*entity.Location, error) {
	r.s.cmu.RLock()
	defer r.s.cmu.RUnlock()
	var out []*entity.Location
	for _, loc := range r.s.locations {
		c := *loc
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

type departmentRepo struct{ s *Store }

var _ repository.DepartmentRepository = (*departmentRepo)(nil)

func (r *departmentRepo) Create(dept *entity.Department) error {
	r.s.cmu.Lock()
	defer r.s.cmu.Unlock()
	c := *dept
	r.s.departments[dept.ID] = &c
	return nil
}

func (r *departmentRepo) GetByID(id string) (*entity.Department, error) {
	r.s.cmu.RLock()
	defer r.s.cmu.RUnlock()
	if dept, ok := r.s.departments[id]; ok {
		c := *dept
		return &c, nil
	}
	return nil, nil
}

func (r *departmentRepo) Update(dept *entity.Department) error { return r.Create(dept) }

func (r *departmentRepo) List(limit, offset int) ([]*entity.Department, error) {
	r.s.cmu.RLock()
	defer r.s.cmu.RUnlock()
	var out []*entity.Department
	for _, dept := range r.s.departments {
		c := *dept
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

type userRepo struct{ s *Store }

var _ repository.UserRepository = (*userRepo)(nil)

func (r *userRepo) Create(user *entity.User) error {
	r.s.cmu.Lock()
	defer r.s.cmu.Unlock()
	c := *user
	r.s.users[user.ID] = &c
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	r.s.cmu.RLock()
	defer r.s.cmu.RUnlock()
	if user, ok := r.s.users[id]; ok {
		c := *user
		return &c, nil
	}
	return nil, nil
}

func (r *userRepo) GetByEmail(email string) (*entity.User, error) {
	r.s.cmu.RLock()
	defer r.s.cmu.RUnlock()
	for _, user := range r.s.users {
		if user.Email == email {
			c := *user
			return &c, nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(limit, offset int) ([]*entity.User, error) {
	r.s.cmu.RLock()
	defer r.s.cmu.RUnlock()
	var out []*entity.User
	for _, user := range r.s.users {
		c := *user
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return page(out, limit, offset), nil
}

type lowStockRepo struct{ s *Store }

var _ repository.LowStockRepository = (*lowStockRepo)(nil)

func (r *lowStockRepo) ListBelowThreshold(locationID string) ([]repository.LowStockRow, error) {
	// mismo orden mu → cmu que los casos de uso dentro de una transacción
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cmu.RLock()
	defer r.s.cmu.RUnlock()
	var out []repository.LowStockRow
	for _, rec := range r.s.state.stock {
		if locationID != "" && rec.LocationID != locationID {
			continue
		}
		item, ok := r.s.items[rec.ItemID]
		if !ok || item.ReorderThreshold <= 0 || rec.Quantity >= item.ReorderThreshold {
			continue
		}
		out = append(out, repository.LowStockRow{
			ItemID:     rec.ItemID,
			ItemName:   item.Name,
			Unit:       item.Unit,
			LocationID: rec.LocationID,
			Quantity:   rec.Quantity,
			Threshold:  item.ReorderThreshold,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Threshold-out[i].Quantity > out[j].Threshold-out[j].Quantity
	})
	return out, nil
}
