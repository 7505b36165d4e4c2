package staff

import "context"

// StaffRepository is the engine's read-only view of the staff service.
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (Staff, error)
	ListActiveByClientID(ctx context.Context, clientID string) ([]Staff, error)
}
