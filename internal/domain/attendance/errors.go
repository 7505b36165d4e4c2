package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrZeroExpectedDays   = errors.New("attendance record has zero expected days")
	ErrInvalidPeriod      = errors.New("invalid attendance period")
)
