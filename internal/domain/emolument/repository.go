package emolument

import "context"

// ComponentRepository defines data access for the emolument component catalog.
type ComponentRepository interface {
	// ListActiveForClient returns universal components plus the client's own,
	// suitable for building a calculation Catalog.
	ListActiveForClient(ctx context.Context, clientID string) ([]Component, error)
	GetByCode(ctx context.Context, code string, clientID *string) (Component, error)
	Create(ctx context.Context, component Component) (Component, error)
}

// PayGradeRepository resolves a staff member's active pay grade structure.
// Backed by the staff/grade collaborator's tables; the engine only reads.
type PayGradeRepository interface {
	GetActiveByStaffID(ctx context.Context, staffID string) (PayGradeStructure, error)
}
