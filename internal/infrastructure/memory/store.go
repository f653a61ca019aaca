// Package memory implementa los puertos de ingesta en memoria con la misma semántica
// ON CONFLICT que PostgreSQL. Se usa en tests y en el modo --dry-run del CLI.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/pos-ingest-api/internal/application/ingest"
	"github.com/jhoicas/pos-ingest-api/internal/domain"
	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/repository"
)

var (
	_ ingest.TxRunner                        = (*Store)(nil)
	_ repository.ImportJobRepository         = (*JobRepo)(nil)
	_ repository.EmployeeRepository          = (*EmployeeRepo)(nil)
	_ repository.ItemRepository              = (*ItemRepo)(nil)
	_ repository.TransactionRepository       = (*TransactionRepo)(nil)
	_ repository.InventorySnapshotRepository = (*SnapshotRepo)(nil)
)

// Store guarda todas las tablas en mapas indexados por su clave natural.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex // serializa Run para poder revertir

	jobs         map[string]entity.ImportJob
	employees    map[string]entity.Employee          // store|code
	items        map[string]entity.Item              // store|sku
	transactions map[string]entity.Transaction       // store|pos_id
	txItems      map[string]entity.TransactionItem   // tx_id|item_id
	snapshots    map[string]entity.InventorySnapshot // store|item_id|fecha
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		jobs:         make(map[string]entity.ImportJob),
		employees:    make(map[string]entity.Employee),
		items:        make(map[string]entity.Item),
		transactions: make(map[string]entity.Transaction),
		txItems:      make(map[string]entity.TransactionItem),
		snapshots:    make(map[string]entity.InventorySnapshot),
	}
}

func key(parts ...string) string { return strings.Join(parts, "|") }

// Jobs devuelve el repositorio de jobs.
func (s *Store) Jobs() *JobRepo { return &JobRepo{s: s} }

// Repositories devuelve el handle de repositorios sin transacción.
func (s *Store) Repositories() ingest.Repositories {
	return ingest.Repositories{
		Employees:    &EmployeeRepo{s: s},
		Items:        &ItemRepo{s: s},
		Transactions: &TransactionRepo{s: s},
		Snapshots:    &SnapshotRepo{s: s},
	}
}

// Run ejecuta fn; si devuelve error se restauran las tablas de datos al estado previo.
// Los jobs quedan fuera: igual que en PostgreSQL, se escriben con el pool y no con la tx del registro.
func (s *Store) Run(ctx context.Context, fn func(repos ingest.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	saved := s.checkpoint()
	committed := false
	defer func() {
		if !committed {
			s.restore(saved)
		}
	}()
	if err := fn(s.Repositories()); err != nil {
		return err
	}
	committed = true
	return nil
}

type checkpoint struct {
	employees    map[string]entity.Employee
	items        map[string]entity.Item
	transactions map[string]entity.Transaction
	txItems      map[string]entity.TransactionItem
	snapshots    map[string]entity.InventorySnapshot
}

func (s *Store) checkpoint() checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return checkpoint{
		employees:    cloneMap(s.employees),
		items:        cloneMap(s.items),
		transactions: cloneMap(s.transactions),
		txItems:      cloneMap(s.txItems),
		snapshots:    cloneMap(s.snapshots),
	}
}

func (s *Store) restore(c checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = c.employees
	s.items = c.items
	s.transactions = c.transactions
	s.txItems = c.txItems
	s.snapshots = c.snapshots
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ── Jobs ──────────────────────────────────────────────────────────────────────

// JobRepo implementación en memoria de ImportJobRepository.
type JobRepo struct{ s *Store }

func (r *JobRepo) Create(_ context.Context, job *entity.ImportJob) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.jobs[job.ID]; exists {
		return fmt.Errorf("insert import job: id duplicado %s", job.ID)
	}
	r.s.jobs[job.ID] = *job
	return nil
}

func (r *JobRepo) Complete(_ context.Context, job *entity.ImportJob) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.jobs[job.ID]; !exists {
		return domain.ErrNotFound
	}
	r.s.jobs[job.ID] = *job
	return nil
}

func (r *JobRepo) GetByID(_ context.Context, id string) (*entity.ImportJob, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	job, ok := r.s.jobs[id]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (r *JobRepo) ListByStore(_ context.Context, storeID string, limit, offset int) ([]*entity.ImportJob, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.ImportJob
	for _, j := range r.s.jobs {
		if j.StoreID == storeID {
			j := j
			list = append(list, &j)
		}
	}
	sort.SliceStable(list, func(a, b int) bool {
		if list[a].StartedAt.Equal(list[b].StartedAt) {
			return list[a].ID < list[b].ID
		}
		return list[a].StartedAt.After(list[b].StartedAt)
	})
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// ── Employees ─────────────────────────────────────────────────────────────────

// EmployeeRepo implementación en memoria de EmployeeRepository.
type EmployeeRepo struct{ s *Store }

func (r *EmployeeRepo) GetByStoreAndCode(_ context.Context, storeID, code string) (*entity.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.employees[key(storeID, code)]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// Upsert conserva ID y CreatedAt de la fila existente y sobrescribe el resto.
func (r *EmployeeRepo) Upsert(_ context.Context, employee *entity.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(employee.StoreID, employee.EmployeeCode)
	next := *employee
	if prev, ok := r.s.employees[k]; ok {
		next.ID = prev.ID
		next.CreatedAt = prev.CreatedAt
	}
	r.s.employees[k] = next
	return nil
}

// ── Items ─────────────────────────────────────────────────────────────────────

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) GetByStoreAndSKU(_ context.Context, storeID, sku string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[key(storeID, sku)]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *ItemRepo) Upsert(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(item.StoreID, item.SKU)
	next := *item
	if prev, ok := r.s.items[k]; ok {
		next.ID = prev.ID
		next.CreatedAt = prev.CreatedAt
	}
	r.s.items[k] = next
	return nil
}

// ── Transactions ──────────────────────────────────────────────────────────────

// TransactionRepo implementación en memoria de TransactionRepository.
type TransactionRepo struct{ s *Store }

func (r *TransactionRepo) InsertIgnore(_ context.Context, tx *entity.Transaction) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(tx.StoreID, tx.POSTransactionID)
	if _, exists := r.s.transactions[k]; exists {
		return false, nil
	}
	r.s.transactions[k] = *tx
	return true, nil
}

func (r *TransactionRepo) InsertItemIgnore(_ context.Context, item *entity.TransactionItem) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(item.TransactionID, item.ItemID)
	if _, exists := r.s.txItems[k]; exists {
		return false, nil
	}
	r.s.txItems[k] = *item
	return true, nil
}

func (r *TransactionRepo) CountByStore(_ context.Context, storeID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, t := range r.s.transactions {
		if t.StoreID == storeID {
			n++
		}
	}
	return n, nil
}

func (r *TransactionRepo) ListItems(_ context.Context, transactionID string) ([]*entity.TransactionItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.TransactionItem
	for _, it := range r.s.txItems {
		if it.TransactionID == transactionID {
			it := it
			list = append(list, &it)
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].ItemID < list[b].ItemID })
	return list, nil
}

func (r *TransactionRepo) GetByPOSID(_ context.Context, storeID, posTransactionID string) (*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.transactions[key(storeID, posTransactionID)]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// ── Snapshots ─────────────────────────────────────────────────────────────────

// SnapshotRepo implementación en memoria de InventorySnapshotRepository.
type SnapshotRepo struct{ s *Store }

func snapshotKey(storeID, itemID string, date time.Time) string {
	return key(storeID, itemID, date.UTC().Format("2006-01-02"))
}

func (r *SnapshotRepo) Upsert(_ context.Context, snapshot *entity.InventorySnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := snapshotKey(snapshot.StoreID, snapshot.ItemID, snapshot.SnapshotDate)
	next := *snapshot
	if prev, ok := r.s.snapshots[k]; ok {
		next.ID = prev.ID
		next.CreatedAt = prev.CreatedAt
	}
	r.s.snapshots[k] = next
	return nil
}

func (r *SnapshotRepo) Get(_ context.Context, storeID, itemID string, date time.Time) (*entity.InventorySnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	snap, ok := r.s.snapshots[snapshotKey(storeID, itemID, date)]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}
