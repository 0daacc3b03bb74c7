package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// ErrNotBound is returned by accessors used before Registry.Bind.
var ErrNotBound = errors.New("entity accessor is not bound to a database handle")

// Entity is a table-backed accessor registered under a name.
type Entity interface {
	// Name returns the registry key (e.g. "User")
	Name() string

	// Model returns the GORM model value used for schema synchronization
	Model() any

	// Bind initializes the accessor against a database handle
	Bind(db *gorm.DB)
}

// Associator is implemented by entities that wire relationships to other
// registered entities. Associate runs once, after every entity has been
// registered.
type Associator interface {
	Associate(r *Registry) error
}

// Registry holds entity accessors in registration order.
type Registry struct {
	assocMu    sync.Mutex
	mu         sync.RWMutex
	entities   map[string]Entity
	order      []string
	associated bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]Entity),
	}
}

// Register adds an entity. Registration closes once associations have run.
func (r *Registry) Register(e Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e == nil || e.Name() == "" {
		return errors.New("entity must have a name")
	}
	if r.associated {
		return fmt.Errorf("cannot register entity %q after associations are wired", e.Name())
	}
	if _, ok := r.entities[e.Name()]; ok {
		return fmt.Errorf("entity %q already registered", e.Name())
	}

	r.entities[e.Name()] = e
	r.order = append(r.order, e.Name())
	return nil
}

// Get returns an entity by name
func (r *Registry) Get(name string) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[name]
	return e, ok
}

// Names returns entity names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Models returns the GORM model of every entity in registration order
func (r *Registry) Models() []any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	models := make([]any, 0, len(r.order))
	for _, name := range r.order {
		models = append(models, r.entities[name].Model())
	}
	return models
}

// Bind initializes every registered entity against db.
func (r *Registry) Bind(db *gorm.DB) {
	for _, e := range r.snapshot() {
		e.Bind(db)
	}
}

// Associate runs each entity's association hook with the full registry,
// in registration order. Hooks run at most once per registry; later calls
// are no-ops. A failed pass may be retried.
func (r *Registry) Associate() error {
	r.assocMu.Lock()
	defer r.assocMu.Unlock()

	if r.Associated() {
		return nil
	}

	for _, e := range r.snapshot() {
		a, ok := e.(Associator)
		if !ok {
			continue
		}
		if err := a.Associate(r); err != nil {
			return fmt.Errorf("failed to associate %s: %w", e.Name(), err)
		}
	}

	r.mu.Lock()
	r.associated = true
	r.mu.Unlock()
	return nil
}

// Initialize binds every entity to db and then wires associations.
func (r *Registry) Initialize(db *gorm.DB) error {
	r.Bind(db)
	return r.Associate()
}

// Associated reports whether association hooks have run
func (r *Registry) Associated() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.associated
}

func (r *Registry) snapshot() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entities := make([]Entity, 0, len(r.order))
	for _, name := range r.order {
		entities = append(entities, r.entities[name])
	}
	return entities
}

// Relation names a struct field of an entity's model that refers to
// another registered entity.
type Relation struct {
	Field  string
	Target string
}

// Table is the generic accessor for a GORM model T.
type Table[T any] struct {
	name      string
	relations []Relation

	mu       sync.RWMutex
	db       *gorm.DB
	preloads []string
}

// NewTable creates an accessor for T registered under name.
func NewTable[T any](name string, relations ...Relation) *Table[T] {
	return &Table[T]{name: name, relations: relations}
}

// Name returns the registry key
func (t *Table[T]) Name() string {
	return t.name
}

// Model returns a zero value of T for schema synchronization
func (t *Table[T]) Model() any {
	return new(T)
}

// Bind stores the database handle
func (t *Table[T]) Bind(db *gorm.DB) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.db = db
}

// Associate resolves declared relations against the registry. Each
// resolved relation is preloaded by Query.
func (t *Table[T]) Associate(r *Registry) error {
	preloads := make([]string, 0, len(t.relations))
	for _, rel := range t.relations {
		if _, ok := r.Get(rel.Target); !ok {
			return fmt.Errorf("relation %s.%s targets unregistered entity %q", t.name, rel.Field, rel.Target)
		}
		preloads = append(preloads, rel.Field)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.preloads = preloads
	return nil
}

// Preloads returns the relation fields wired by Associate
func (t *Table[T]) Preloads() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.preloads))
	copy(out, t.preloads)
	return out
}

// Query returns a session scoped to T with associations preloaded.
func (t *Table[T]) Query(ctx context.Context) (*gorm.DB, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.db == nil {
		return nil, fmt.Errorf("%s: %w", t.name, ErrNotBound)
	}

	q := t.db.WithContext(ctx).Model(new(T))
	for _, field := range t.preloads {
		q = q.Preload(field)
	}
	return q, nil
}

// Find loads the record with the given primary key.
func (t *Table[T]) Find(ctx context.Context, id uint) (*T, error) {
	q, err := t.Query(ctx)
	if err != nil {
		return nil, err
	}

	var record T
	if err := q.First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
