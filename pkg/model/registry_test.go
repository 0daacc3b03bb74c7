package model

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingEntity records hook invocations in a shared log
type recordingEntity struct {
	name string
	log  *[]string
	err  error
}

func (e *recordingEntity) Name() string { return e.name }
func (e *recordingEntity) Model() any { return &User{} }
func (e *recordingEntity) Bind(*gorm.DB) { *e.log = append(*e.log, "bind:"+e.name) }
func (e *recordingEntity) Associate(r *Registry) error {
	*e.log = append(*e.log, "associate:"+e.name)
	if len(r.Names()) == 0 {
		return errors.New("registry is empty")
	}
	return e.err
}

// plainEntity has no association hook
type plainEntity struct{ name string }

func (e plainEntity) Name() string { return e.name }
func (e plainEntity) Model() any { return &Budget{} }
func (e plainEntity) Bind(*gorm.DB) {}

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)
	return gormDB, mock
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(plainEntity{name: "A"}))
	require.NoError(t, r.Register(plainEntity{name: "B"}))

	got, ok := r.Get("A")
	assert.True(t, ok)
	assert.Equal(t, "A", got.Name())
	assert.Equal(t, []string{"A", "B"}, r.Names())
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(plainEntity{name: "A"}))

	err := r.Register(plainEntity{name: "A"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_Register_Invalid(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(plainEntity{}))
}

func TestRegistry_Get_NotFound(t *testing.T) {
	_, ok := NewRegistry().Get("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_InitializeOrder(t *testing.T) {
	var calls []string
	r := NewRegistry()
	for _, name := range []string{"C", "A", "B"} {
		require.NoError(t, r.Register(&recordingEntity{name: name, log: &calls}))
	}
	db, _ := newMockGorm(t)

	require.NoError(t, r.Initialize(db))

	assert.Equal(t, []string{
		"bind:C", "bind:A", "bind:B",
		"associate:C", "associate:A", "associate:B",
	}, calls)
	assert.True(t, r.Associated())
}

func TestRegistry_AssociateRunsOnce(t *testing.T) {
	var calls []string
	r := NewRegistry()
	require.NoError(t, r.Register(&recordingEntity{name: "A", log: &calls}))

	require.NoError(t, r.Associate())
	require.NoError(t, r.Associate())

	assert.Equal(t, []string{"associate:A"}, calls)

	err := r.Register(plainEntity{name: "late"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "after associations")
}

func TestRegistry_AssociateFailure(t *testing.T) {
	var calls []string
	r := NewRegistry()
	require.NoError(t, r.Register(&recordingEntity{name: "A", log: &calls, err: errors.New("boom")}))

	err := r.Associate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to associate A")
	assert.False(t, r.Associated())
}

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	assert.Equal(t, []string{"User", "Transaction", "Group", "Budget", "Notification"}, r.Names())
	assert.Len(t, r.Models(), 5)
	assert.IsType(t, &Transaction{}, r.Models()[1])

	require.NoError(t, r.Associate())
	assert.Equal(t, []string{"User", "Group"}, Transactions(r).Preloads())
	assert.Equal(t, []string{"Owner"}, Groups(r).Preloads())
	assert.Empty(t, Users(r).Preloads())
	assert.NotNil(t, Budgets(r))
	assert.NotNil(t, Notifications(r))
}

func TestTable_AssociateMissingTarget(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewTable[Transaction](EntityTransaction, Relation{Field: "User", Target: EntityUser})))

	err := r.Associate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unregistered entity "User"`)
}

func TestTable_QueryBeforeBind(t *testing.T) {
	_, err := NewTable[User](EntityUser).Query(context.Background())
	assert.ErrorIs(t, err, ErrNotBound)
}

func TestTable_Find(t *testing.T) {
	db, mock := newMockGorm(t)
	r := NewRegistry()
	require.NoError(t, r.Register(NewTable[User](EntityUser)))
	require.NoError(t, r.Initialize(db))

	rows := sqlmock.NewRows([]string{"id", "email", "full_name"}).AddRow(7, "ada@example.com", "Ada")
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(rows)

	user, err := Users(r).Find(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
