package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zenithhr/payroll-backend-go/internal/domain/attendance"
	"github.com/zenithhr/payroll-backend-go/internal/domain/emolument"
	"github.com/zenithhr/payroll-backend-go/internal/domain/payroll"
	"github.com/zenithhr/payroll-backend-go/internal/domain/settings"
	"github.com/zenithhr/payroll-backend-go/internal/domain/staff"
	settingsvc "github.com/zenithhr/payroll-backend-go/internal/service/settings"
)

type Service struct {
	runs           payroll.PayrollRepository
	staffRepo      staff.StaffRepository
	gradeRepo      emolument.PayGradeRepository
	componentRepo  emolument.ComponentRepository
	attendanceRepo attendance.AttendanceRepository
	registry       *settingsvc.Registry
	logger         *slog.Logger
	workers        int
}

func NewService(
	runs payroll.PayrollRepository,
	staffRepo staff.StaffRepository,
	gradeRepo emolument.PayGradeRepository,
	componentRepo emolument.ComponentRepository,
	attendanceRepo attendance.AttendanceRepository,
	registry *settingsvc.Registry,
	logger *slog.Logger,
	workers int,
) *Service {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Service{
		runs:           runs,
		staffRepo:      staffRepo,
		gradeRepo:      gradeRepo,
		componentRepo:  componentRepo,
		attendanceRepo: attendanceRepo,
		registry:       registry,
		logger:         logger,
		workers:        workers,
	}
}

// ========== RUN LIFECYCLE ==========

func (s *Service) CreateRun(ctx context.Context, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	run := payroll.Run{
		ClientID:  req.ClientID,
		Month:     req.Month,
		Year:      req.Year,
		Status:    payroll.RunStatusDraft,
		Notes:     req.Notes,
		CreatedBy: req.CreatedBy,
	}

	created, err := s.runs.CreateRun(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	return mapToRunResponse(created), nil
}

// CalculateRun drives the item calculator over every active staff member of
// the run's client and flips the run to calculated.
//
// Settings and brackets are snapshotted once before any worker starts; a
// concurrent admin edit cannot produce a run calculated under mixed rates.
// Per-staff input errors go into the failure report and never abort the
// transition; configuration errors block the whole run because every item
// would be wrong in the same way.
func (s *Service) CalculateRun(ctx context.Context, runID string) (payroll.CalculateRunResponse, error) {
	run, err := s.runs.GetRunByID(ctx, runID)
	if err != nil {
		return payroll.CalculateRunResponse{}, err
	}
	if run.Status != payroll.RunStatusDraft {
		return payroll.CalculateRunResponse{}, fmt.Errorf("%w: cannot calculate run in status %s", payroll.ErrInvalidStateTransition, run.Status)
	}

	snap, err := s.registry.Snapshot(ctx, run.PeriodEnd())
	if err != nil {
		return payroll.CalculateRunResponse{}, err
	}
	if err := preflightSettings(snap); err != nil {
		return payroll.CalculateRunResponse{}, err
	}

	components, err := s.componentRepo.ListActiveForClient(ctx, run.ClientID)
	if err != nil {
		return payroll.CalculateRunResponse{}, fmt.Errorf("load component catalog: %w", err)
	}
	catalog := emolument.NewCatalog(components)

	staffList, err := s.staffRepo.ListActiveByClientID(ctx, run.ClientID)
	if err != nil {
		return payroll.CalculateRunResponse{}, fmt.Errorf("load staff: %w", err)
	}
	if len(staffList) == 0 {
		return payroll.CalculateRunResponse{}, payroll.ErrNoStaffForRun
	}

	// A draft recalculation replaces prior items wholesale; items are never
	// patched in place.
	if err := s.runs.DeleteItemsByRunID(ctx, runID); err != nil {
		return payroll.CalculateRunResponse{}, fmt.Errorf("clear previous items: %w", err)
	}

	// One correlation id per calculation attempt; recalculations of the same
	// run are distinguishable in the logs.
	logger := s.logger.With(
		slog.String("run_id", run.ID),
		slog.String("calculation_id", uuid.NewString()),
	)

	var (
		mu        sync.Mutex
		succeeded []string
		failed    []payroll.ItemFailure
		totals    payroll.RunTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, member := range staffList {
		member := member
		g.Go(func() error {
			item, err := s.calculateOne(gctx, run, member, catalog, snap)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("payroll item calculation failed",
					slog.String("staff_id", member.ID),
					slog.String("error", err.Error()),
				)
				failed = append(failed, payroll.ItemFailure{
					StaffID:   member.ID,
					StaffName: member.FullName(),
					Error:     err.Error(),
				})
				return nil
			}
			succeeded = append(succeeded, member.ID)
			totals.StaffCount++
			totals.TotalGrossPay = totals.TotalGrossPay.Add(item.ProratedMonthlyGross)
			totals.TotalDeductions = totals.TotalDeductions.Add(item.TotalDeductions)
			totals.TotalNetPay = totals.TotalNetPay.Add(item.NetPay)
			totals.TotalCreditToBank = totals.TotalCreditToBank.Add(item.CreditToBank)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.CalculateRunResponse{}, err
	}

	sort.Strings(succeeded)
	sort.Slice(failed, func(i, j int) bool { return failed[i].StaffID < failed[j].StaffID })

	status := run.Status
	if len(succeeded) > 0 {
		if err := s.runs.MarkCalculated(ctx, run.ID, totals, time.Now().UTC()); err != nil {
			return payroll.CalculateRunResponse{}, err
		}
		status = payroll.RunStatusCalculated
	}

	logger.Info("payroll run calculation finished",
		slog.String("status", string(status)),
		slog.Int("processed", len(succeeded)),
		slog.Int("failed", len(failed)),
	)

	return payroll.CalculateRunResponse{
		RunID:          run.ID,
		Status:         string(status),
		ProcessedCount: len(succeeded),
		FailedCount:    len(failed),
		Succeeded:      succeeded,
		Failed:         failed,
		Totals: payroll.RunTotalsDTO{
			StaffCount:        totals.StaffCount,
			TotalGrossPay:     totals.TotalGrossPay,
			TotalDeductions:   totals.TotalDeductions,
			TotalNetPay:       totals.TotalNetPay,
			TotalCreditToBank: totals.TotalCreditToBank,
		},
	}, nil
}

func (s *Service) calculateOne(
	ctx context.Context,
	run payroll.Run,
	member staff.Staff,
	catalog emolument.Catalog,
	snap *settingsvc.Snapshot,
) (payroll.Item, error) {
	grade, err := s.gradeRepo.GetActiveByStaffID(ctx, member.ID)
	if err != nil {
		return payroll.Item{}, err
	}
	record, err := s.attendanceRepo.GetByStaffPeriod(ctx, member.ID, run.Month, run.Year)
	if err != nil {
		return payroll.Item{}, err
	}

	item, err := CalculateItem(CalculationInput{
		Staff:      member,
		PayGrade:   grade,
		Attendance: record,
		Catalog:    catalog,
		Settings:   snap,
	})
	if err != nil {
		return payroll.Item{}, err
	}
	item.RunID = run.ID

	created, err := s.runs.CreateItem(ctx, item)
	if err != nil {
		return payroll.Item{}, err
	}
	return created, nil
}

// preflightSettings rejects a run before any worker starts when a statutory
// key is missing or unreadable. A missing rate must surface to the
// administrator, never default to zero.
func preflightSettings(snap *settingsvc.Snapshot) error {
	for _, key := range []string{settings.KeyPensionRate, settings.KeyNHISRate, settings.KeyRentReliefRate} {
		if _, err := snap.Rate(key); err != nil {
			return err
		}
	}
	if _, err := snap.Amount(settings.KeyRentReliefCap); err != nil {
		return err
	}
	if len(snap.Brackets()) == 0 {
		return settings.ErrNoBracketsActive
	}
	return nil
}

// ApplyApproval records the external approval workflow's decision. The engine
// only checks the state machine; whether the approval was permitted is the
// workflow's concern.
func (s *Service) ApplyApproval(ctx context.Context, runID, approverID string, at time.Time) error {
	run, err := s.runs.GetRunByID(ctx, runID)
	if err != nil {
		return err
	}
	if !payroll.CanTransition(run.Status, payroll.RunStatusApproved) {
		return fmt.Errorf("%w: cannot approve run in status %s", payroll.ErrInvalidStateTransition, run.Status)
	}
	return s.runs.MarkApproved(ctx, runID, approverID, at)
}

// MarkExported flips an approved run to exported. File generation belongs to
// the export collaborator; only the state and timestamp live here.
func (s *Service) MarkExported(ctx context.Context, runID string) error {
	run, err := s.runs.GetRunByID(ctx, runID)
	if err != nil {
		return err
	}
	if !payroll.CanTransition(run.Status, payroll.RunStatusExported) {
		return fmt.Errorf("%w: cannot export run in status %s", payroll.ErrInvalidStateTransition, run.Status)
	}
	return s.runs.MarkExported(ctx, runID, time.Now().UTC())
}

// CancelRun cancels a draft or calculated run. Items are kept and marked
// superseded; the audit trail survives cancellation.
func (s *Service) CancelRun(ctx context.Context, runID string) error {
	run, err := s.runs.GetRunByID(ctx, runID)
	if err != nil {
		return err
	}
	if !payroll.CanTransition(run.Status, payroll.RunStatusCancelled) {
		return fmt.Errorf("%w: cannot cancel run in status %s", payroll.ErrInvalidStateTransition, run.Status)
	}
	return s.runs.MarkCancelled(ctx, runID, time.Now().UTC())
}

// ReopenRun drops a calculated run back to draft, deleting every item so the
// next calculation starts from scratch under the then-current settings.
func (s *Service) ReopenRun(ctx context.Context, runID string) error {
	run, err := s.runs.GetRunByID(ctx, runID)
	if err != nil {
		return err
	}
	if !payroll.CanTransition(run.Status, payroll.RunStatusDraft) {
		return fmt.Errorf("%w: cannot reopen run in status %s", payroll.ErrInvalidStateTransition, run.Status)
	}
	return s.runs.ReopenRun(ctx, runID)
}

// ========== QUERIES ==========

func (s *Service) GetRunSummary(ctx context.Context, runID string) (payroll.RunResponse, error) {
	run, err := s.runs.GetRunByID(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	return mapToRunResponse(run), nil
}

func (s *Service) ListRuns(ctx context.Context, filter payroll.RunFilter) (payroll.ListRunResponse, error) {
	runs, totalCount, err := s.runs.ListRuns(ctx, filter)
	if err != nil {
		return payroll.ListRunResponse{}, err
	}

	result := make([]payroll.RunResponse, 0, len(runs))
	for _, run := range runs {
		result = append(result, mapToRunResponse(run))
	}
	return payroll.ListRunResponse{
		Data:       result,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *Service) ListItems(ctx context.Context, runID string) ([]payroll.ItemResponse, error) {
	if _, err := s.runs.GetRunByID(ctx, runID); err != nil {
		return nil, err
	}
	items, err := s.runs.ListItemsByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.ItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, mapToItemResponse(item))
	}
	return result, nil
}

// ========== HELPERS ==========

func mapToRunResponse(run payroll.Run) payroll.RunResponse {
	return payroll.RunResponse{
		ID:                run.ID,
		ClientID:          run.ClientID,
		Month:             run.Month,
		Year:              run.Year,
		Status:            string(run.Status),
		Notes:             run.Notes,
		StaffCount:        run.StaffCount,
		TotalGrossPay:     run.TotalGrossPay,
		TotalDeductions:   run.TotalDeductions,
		TotalNetPay:       run.TotalNetPay,
		TotalCreditToBank: run.TotalCreditToBank,
		CreatedBy:         run.CreatedBy,
		CalculatedAt:      run.CalculatedAt,
		ApprovedBy:        run.ApprovedBy,
		ApprovedAt:        run.ApprovedAt,
		ExportedAt:        run.ExportedAt,
		CancelledAt:       run.CancelledAt,
		CreatedAt:         run.CreatedAt,
	}
}

func mapToItemResponse(item payroll.Item) payroll.ItemResponse {
	return payroll.ItemResponse{
		ID:       item.ID,
		RunID:    item.RunID,
		StaffID:  item.StaffID,
		ClientID: item.ClientID,

		StaffName:     item.StaffName,
		StaffCode:     item.StaffCode,
		BankName:      item.BankName,
		AccountNumber: item.AccountNumber,
		PFACode:       item.PFACode,

		DaysPresent:     item.DaysPresent,
		DaysAbsent:      item.DaysAbsent,
		TotalDays:       item.TotalDays,
		ProrationFactor: item.ProrationFactor,

		AnnualGrossSalary:   item.AnnualGrossSalary,
		AnnualReimbursables: item.AnnualReimbursables,
		PensionableAmount:   item.PensionableAmount,

		MonthlyGross:                 item.MonthlyGross,
		MonthlyReimbursables:         item.MonthlyReimbursables,
		ProratedMonthlyGross:         item.ProratedMonthlyGross,
		ProratedMonthlyReimbursables: item.ProratedMonthlyReimbursables,

		PensionRelief: item.PensionRelief,
		NHISRelief:    item.NHISRelief,
		RentRelief:    item.RentRelief,

		TaxableIncome: item.TaxableIncome,
		AnnualPayeTax: item.AnnualPayeTax,
		MonthlyPaye:   item.MonthlyPaye,

		PensionDeduction:         item.PensionDeduction,
		LeaveAllowanceDeduction:  item.LeaveAllowanceDeduction,
		ThirteenthMonthDeduction: item.ThirteenthMonthDeduction,
		OtherDeductions:          item.OtherDeductions,
		TotalDeductions:          item.TotalDeductions,

		NetPay:       item.NetPay,
		CreditToBank: item.CreditToBank,

		EmolumentsSnapshot: item.EmolumentsSnapshot,

		Superseded:      item.Superseded,
		CalculationDate: item.CalculationDate,
	}
}
