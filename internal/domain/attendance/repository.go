package attendance

import "context"

// AttendanceRepository defines data access for per-period attendance records.
// The payroll engine only reads records the attendance subsystem marked ready.
type AttendanceRepository interface {
	GetByStaffPeriod(ctx context.Context, staffID string, month, year int) (Record, error)
	ListReadyForPeriod(ctx context.Context, clientID string, month, year int) ([]Record, error)
}
