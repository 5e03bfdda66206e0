package ecs

import "github.com/TheBitDrifter/table"

// Component is a data element attached to entities. It reuses warehouse's
// identity scheme (github.com/TheBitDrifter/table.ElementType) so a
// component is still identified by a stable ID() and reflect Type(),
// letting us build on table.Schema/table.Table unchanged per domain.
type Component interface {
	table.ElementType
}

// AccessibleComponent pairs a Component with a typed column accessor, the
// same shape warehouse's FactoryNewComponent returns, so callers read and
// write row data with a concrete *T instead of reflection.
type AccessibleComponent[T any] struct {
	Component
	table.Accessor[T]
}

// GetFromCursor reads the column value at the cursor's current row.
func (c AccessibleComponent[T]) GetFromCursor(cur *Cursor) *T {
	return c.Get(cur.Row(), cur.Table())
}

// CheckCursor reports whether this component's column exists in the page
// the cursor currently sits on.
func (c AccessibleComponent[T]) CheckCursor(cur *Cursor) bool {
	return c.Accessor.Check(cur.Table())
}

// NewComponent registers T as a component belonging to domain and returns
// an accessor for its column. Registration is append-only and idempotent:
// calling it twice for the same T returns accessors for the same domain,
// and calling it with a different domain the second time is a conflict.
func NewComponent[T any](registry *ComponentRegistry, domain SemanticDomain) AccessibleComponent[T] {
	ident := table.FactoryNewElementType[T]()
	if err := registry.register(ident, domain); err != nil {
		panic(err)
	}
	return AccessibleComponent[T]{
		Component: ident,
		Accessor:  table.FactoryNewAccessor[T](ident),
	}
}
