package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/zenithhr/payroll-backend-go/internal/domain/attendance"
)

type Service struct {
	repo attendance.AttendanceRepository
}

func NewService(repo attendance.AttendanceRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetRecord(ctx context.Context, staffID string, month, year int) (attendance.Record, error) {
	if month < 1 || month > 12 {
		return attendance.Record{}, fmt.Errorf("%w: month %d", attendance.ErrInvalidPeriod, month)
	}
	return s.repo.GetByStaffPeriod(ctx, staffID, month, year)
}

func (s *Service) ListReadyForPeriod(ctx context.Context, clientID string, month, year int) ([]attendance.Record, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d", attendance.ErrInvalidPeriod, month)
	}
	return s.repo.ListReadyForPeriod(ctx, clientID, month, year)
}

// PeriodDays counts the expected days of a month under the given method.
// working_days counts Monday through Friday; calendar_days counts every day.
func PeriodDays(month, year int, method attendance.CalculationMethod) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: month %d", attendance.ErrInvalidPeriod, month)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	switch method {
	case attendance.MethodCalendarDays:
		return daysInMonth, nil
	case attendance.MethodWorkingDays:
		count := 0
		for d := 0; d < daysInMonth; d++ {
			switch first.AddDate(0, 0, d).Weekday() {
			case time.Saturday, time.Sunday:
			default:
				count++
			}
		}
		return count, nil
	default:
		return 0, fmt.Errorf("%w: unknown calculation method %q", attendance.ErrInvalidPeriod, method)
	}
}
