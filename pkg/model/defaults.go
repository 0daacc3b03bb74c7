package model

// Entity names in the default registry
const (
	EntityUser         = "User"
	EntityTransaction  = "Transaction"
	EntityGroup        = "Group"
	EntityBudget       = "Budget"
	EntityNotification = "Notification"
)

// NewDefaultRegistry registers the ZapPay entities. Associations are not
// wired yet; that happens in Registry.Initialize once a handle exists.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, e := range []Entity{
		NewTable[User](EntityUser),
		NewTable[Transaction](EntityTransaction,
			Relation{Field: "User", Target: EntityUser},
			Relation{Field: "Group", Target: EntityGroup},
		),
		NewTable[Group](EntityGroup,
			Relation{Field: "Owner", Target: EntityUser},
		),
		NewTable[Budget](EntityBudget,
			Relation{Field: "User", Target: EntityUser},
		),
		NewTable[Notification](EntityNotification,
			Relation{Field: "User", Target: EntityUser},
		),
	} {
		// names above are distinct and non-empty
		_ = r.Register(e)
	}
	return r
}

// Users returns the User accessor of r.
func Users(r *Registry) *Table[User] { return accessor[User](r, EntityUser) }

// Transactions returns the Transaction accessor of r.
func Transactions(r *Registry) *Table[Transaction] {
	return accessor[Transaction](r, EntityTransaction)
}

// Groups returns the Group accessor of r.
func Groups(r *Registry) *Table[Group] { return accessor[Group](r, EntityGroup) }

// Budgets returns the Budget accessor of r.
func Budgets(r *Registry) *Table[Budget] { return accessor[Budget](r, EntityBudget) }

// Notifications returns the Notification accessor of r.
func Notifications(r *Registry) *Table[Notification] {
	return accessor[Notification](r, EntityNotification)
}

func accessor[T any](r *Registry, name string) *Table[T] {
	e, ok := r.Get(name)
	if !ok {
		return nil
	}
	t, _ := e.(*Table[T])
	return t
}
