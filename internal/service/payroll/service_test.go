package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithhr/payroll-backend-go/internal/domain/attendance"
	"github.com/zenithhr/payroll-backend-go/internal/domain/emolument"
	"github.com/zenithhr/payroll-backend-go/internal/domain/payroll"
	"github.com/zenithhr/payroll-backend-go/internal/domain/settings"
	"github.com/zenithhr/payroll-backend-go/internal/domain/staff"
	"github.com/zenithhr/payroll-backend-go/internal/fixtures"
	settingsvc "github.com/zenithhr/payroll-backend-go/internal/service/settings"
)

// ========== FAKES ==========

type fakePayrollRepo struct {
	mu     sync.Mutex
	nextID int
	runs   map[string]payroll.Run
	items  map[string][]payroll.Item
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		runs:  make(map[string]payroll.Run),
		items: make(map[string][]payroll.Item),
	}
}

func (f *fakePayrollRepo) CreateRun(ctx context.Context, run payroll.Run) (payroll.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.runs {
		if existing.ClientID == run.ClientID && existing.Month == run.Month &&
			existing.Year == run.Year && existing.Status != payroll.RunStatusCancelled {
			return payroll.Run{}, payroll.ErrDuplicatePeriod
		}
	}
	f.nextID++
	run.ID = fmt.Sprintf("run-%d", f.nextID)
	run.CreatedAt = time.Now().UTC()
	f.runs[run.ID] = run
	return run, nil
}

func (f *fakePayrollRepo) GetRunByID(ctx context.Context, id string) (payroll.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return payroll.Run{}, payroll.ErrRunNotFound
	}
	return run, nil
}

func (f *fakePayrollRepo) ListRuns(ctx context.Context, filter payroll.RunFilter) ([]payroll.Run, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []payroll.Run
	for _, run := range f.runs {
		if filter.ClientID != nil && run.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != nil && run.Status != *filter.Status {
			continue
		}
		result = append(result, run)
	}
	return result, int64(len(result)), nil
}

func (f *fakePayrollRepo) transition(id string, fromOK func(payroll.RunStatus) bool, mutate func(*payroll.Run)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return payroll.ErrRunNotFound
	}
	if !fromOK(run.Status) {
		return fmt.Errorf("%w: run is %s", payroll.ErrInvalidStateTransition, run.Status)
	}
	mutate(&run)
	f.runs[id] = run
	return nil
}

func (f *fakePayrollRepo) MarkCalculated(ctx context.Context, runID string, totals payroll.RunTotals, at time.Time) error {
	return f.transition(runID, func(s payroll.RunStatus) bool { return s == payroll.RunStatusDraft }, func(r *payroll.Run) {
		r.Status = payroll.RunStatusCalculated
		r.RunTotals = totals
		r.CalculatedAt = &at
	})
}

func (f *fakePayrollRepo) MarkApproved(ctx context.Context, runID string, approverID string, at time.Time) error {
	return f.transition(runID, func(s payroll.RunStatus) bool { return s == payroll.RunStatusCalculated }, func(r *payroll.Run) {
		r.Status = payroll.RunStatusApproved
		r.ApprovedBy = &approverID
		r.ApprovedAt = &at
	})
}

func (f *fakePayrollRepo) MarkExported(ctx context.Context, runID string, at time.Time) error {
	return f.transition(runID, func(s payroll.RunStatus) bool { return s == payroll.RunStatusApproved }, func(r *payroll.Run) {
		r.Status = payroll.RunStatusExported
		r.ExportedAt = &at
	})
}

func (f *fakePayrollRepo) MarkCancelled(ctx context.Context, runID string, at time.Time) error {
	err := f.transition(runID, func(s payroll.RunStatus) bool {
		return s == payroll.RunStatusDraft || s == payroll.RunStatusCalculated
	}, func(r *payroll.Run) {
		r.Status = payroll.RunStatusCancelled
		r.CancelledAt = &at
	})
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.items[runID]
	for i := range items {
		items[i].Superseded = true
	}
	return nil
}

func (f *fakePayrollRepo) ReopenRun(ctx context.Context, runID string) error {
	err := f.transition(runID, func(s payroll.RunStatus) bool { return s == payroll.RunStatusCalculated }, func(r *payroll.Run) {
		r.Status = payroll.RunStatusDraft
		r.RunTotals = payroll.RunTotals{}
		r.CalculatedAt = nil
	})
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, runID)
	return nil
}

func (f *fakePayrollRepo) CreateItem(ctx context.Context, item payroll.Item) (payroll.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items[item.RunID] {
		if existing.StaffID == item.StaffID {
			return payroll.Item{}, payroll.ErrItemAlreadyExists
		}
	}
	f.nextID++
	item.ID = fmt.Sprintf("item-%d", f.nextID)
	f.items[item.RunID] = append(f.items[item.RunID], item)
	return item, nil
}

func (f *fakePayrollRepo) ListItemsByRunID(ctx context.Context, runID string) ([]payroll.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]payroll.Item(nil), f.items[runID]...), nil
}

func (f *fakePayrollRepo) DeleteItemsByRunID(ctx context.Context, runID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, runID)
	return nil
}

type fakeStaffRepo struct {
	members []staff.Staff
}

func (f *fakeStaffRepo) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	for _, m := range f.members {
		if m.ID == id {
			return m, nil
		}
	}
	return staff.Staff{}, staff.ErrStaffNotFound
}

func (f *fakeStaffRepo) ListActiveByClientID(ctx context.Context, clientID string) ([]staff.Staff, error) {
	var result []staff.Staff
	for _, m := range f.members {
		if m.ClientID == clientID && m.IsActive {
			result = append(result, m)
		}
	}
	return result, nil
}

type fakeGradeRepo struct {
	grades map[string]emolument.PayGradeStructure
}

func (f *fakeGradeRepo) GetActiveByStaffID(ctx context.Context, staffID string) (emolument.PayGradeStructure, error) {
	grade, ok := f.grades[staffID]
	if !ok {
		return emolument.PayGradeStructure{}, emolument.ErrPayGradeNotFound
	}
	return grade, nil
}

type fakeComponentRepo struct {
	components []emolument.Component
}

func (f *fakeComponentRepo) ListActiveForClient(ctx context.Context, clientID string) ([]emolument.Component, error) {
	return f.components, nil
}

func (f *fakeComponentRepo) GetByCode(ctx context.Context, code string, clientID *string) (emolument.Component, error) {
	for _, c := range f.components {
		if c.Code == code {
			return c, nil
		}
	}
	return emolument.Component{}, emolument.ErrUnknownComponent
}

func (f *fakeComponentRepo) Create(ctx context.Context, component emolument.Component) (emolument.Component, error) {
	f.components = append(f.components, component)
	return component, nil
}

type fakeAttendanceRepo struct {
	records map[string]attendance.Record
}

func (f *fakeAttendanceRepo) GetByStaffPeriod(ctx context.Context, staffID string, month, year int) (attendance.Record, error) {
	rec, ok := f.records[staffID]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (f *fakeAttendanceRepo) ListReadyForPeriod(ctx context.Context, clientID string, month, year int) ([]attendance.Record, error) {
	var result []attendance.Record
	for _, rec := range f.records {
		if rec.ReadyForCalculation {
			result = append(result, rec)
		}
	}
	return result, nil
}

// ========== FIXTURE WIRING ==========

type testEnv struct {
	svc     *Service
	runs    *fakePayrollRepo
	staff   *fakeStaffRepo
	grades  *fakeGradeRepo
	att     *fakeAttendanceRepo
	setting *fakeSettingRepo
}

func newTestEnv(t *testing.T, staffCount int) *testEnv {
	t.Helper()

	staffRepo := &fakeStaffRepo{}
	gradeRepo := &fakeGradeRepo{grades: make(map[string]emolument.PayGradeStructure)}
	attRepo := &fakeAttendanceRepo{records: make(map[string]attendance.Record)}

	for i := 1; i <= staffCount; i++ {
		id := fmt.Sprintf("staff-%d", i)
		staffRepo.members = append(staffRepo.members, staff.Staff{
			ID:           id,
			ClientID:     "client-1",
			FirstName:    "Staff",
			LastName:     fmt.Sprintf("Member%d", i),
			EmployeeCode: fmt.Sprintf("EMP-%04d", i),
			IsActive:     true,
		})
		gradeRepo.grades[id] = gradeWith(map[string]string{
			"BASIC_SALARY": "1200000",
			"HOUSING":      "720000",
			"TRANSPORT":    "480000",
		})
		attRepo.records[id] = attendance.Record{
			StaffID: id, Month: 3, Year: 2026,
			ActualWorkingDays: 22, TotalExpectedDays: 22,
			CalculationMethod: attendance.MethodWorkingDays, ReadyForCalculation: true,
		}
	}

	runs := newFakePayrollRepo()
	settingRepo := newFakeSettingRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewService(
		runs,
		staffRepo,
		gradeRepo,
		&fakeComponentRepo{components: fixtures.GetUniversalComponents()},
		attRepo,
		settingsvc.NewRegistry(settingRepo),
		logger,
		4,
	)

	return &testEnv{svc: svc, runs: runs, staff: staffRepo, grades: gradeRepo, att: attRepo, setting: settingRepo}
}

func createDraftRun(t *testing.T, env *testEnv) string {
	t.Helper()
	created, err := env.svc.CreateRun(context.Background(), payroll.CreateRunRequest{
		ClientID: "client-1", Month: 3, Year: 2026,
	})
	require.NoError(t, err)
	return created.ID
}

// ========== TESTS ==========

func TestCreateRun_DuplicatePeriod(t *testing.T) {
	env := newTestEnv(t, 1)
	createDraftRun(t, env)

	_, err := env.svc.CreateRun(context.Background(), payroll.CreateRunRequest{
		ClientID: "client-1", Month: 3, Year: 2026,
	})
	assert.ErrorIs(t, err, payroll.ErrDuplicatePeriod)
}

func TestCreateRun_AfterCancellation(t *testing.T) {
	env := newTestEnv(t, 1)
	runID := createDraftRun(t, env)
	require.NoError(t, env.svc.CancelRun(context.Background(), runID))

	// A cancelled run frees its period.
	_, err := env.svc.CreateRun(context.Background(), payroll.CreateRunRequest{
		ClientID: "client-1", Month: 3, Year: 2026,
	})
	assert.NoError(t, err)
}

func TestCreateRun_Validation(t *testing.T) {
	env := newTestEnv(t, 1)

	_, err := env.svc.CreateRun(context.Background(), payroll.CreateRunRequest{
		ClientID: "client-1", Month: 13, Year: 2026,
	})
	assert.Error(t, err)
}

func TestCalculateRun_AllStaffSucceed(t *testing.T) {
	env := newTestEnv(t, 3)
	runID := createDraftRun(t, env)

	result, err := env.svc.CalculateRun(context.Background(), runID)
	require.NoError(t, err)

	assert.Equal(t, 3, result.ProcessedCount)
	assert.Equal(t, 0, result.FailedCount)
	assert.Equal(t, string(payroll.RunStatusCalculated), result.Status)

	// Per-staff: gross 200,000, deductions 32,850, net 167,150.
	assert.Equal(t, 3, result.Totals.StaffCount)
	assert.Equal(t, "600000", result.Totals.TotalGrossPay.String())
	assert.Equal(t, "98550", result.Totals.TotalDeductions.String())
	assert.Equal(t, "501450", result.Totals.TotalNetPay.String())
	assert.Equal(t, "501450", result.Totals.TotalCreditToBank.String())

	items, err := env.svc.ListItems(context.Background(), runID)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	run, err := env.svc.GetRunSummary(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusCalculated), run.Status)
	assert.Equal(t, "600000", run.TotalGrossPay.String())
}

func TestCalculateRun_PartialFailure(t *testing.T) {
	env := newTestEnv(t, 3)
	// staff-2 has no attendance record; the other two proceed.
	delete(env.att.records, "staff-2")
	runID := createDraftRun(t, env)

	result, err := env.svc.CalculateRun(context.Background(), runID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.ProcessedCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "staff-2", result.Failed[0].StaffID)
	assert.Equal(t, string(payroll.RunStatusCalculated), result.Status)
	assert.Equal(t, "400000", result.Totals.TotalGrossPay.String())
}

func TestCalculateRun_AllFail_StaysDraft(t *testing.T) {
	env := newTestEnv(t, 2)
	delete(env.att.records, "staff-1")
	delete(env.att.records, "staff-2")
	runID := createDraftRun(t, env)

	result, err := env.svc.CalculateRun(context.Background(), runID)
	require.NoError(t, err)

	assert.Equal(t, 0, result.ProcessedCount)
	assert.Equal(t, 2, result.FailedCount)
	assert.Equal(t, string(payroll.RunStatusDraft), result.Status)
}

func TestCalculateRun_MissingSettingBlocksRun(t *testing.T) {
	env := newTestEnv(t, 2)
	env.setting.removeKey(settings.KeyNHISRate)
	runID := createDraftRun(t, env)

	_, err := env.svc.CalculateRun(context.Background(), runID)
	assert.ErrorIs(t, err, settings.ErrSettingNotFound)

	// Nothing was written and the run stayed draft.
	items, err := env.svc.ListItems(context.Background(), runID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCalculateRun_NoBracketsBlocksRun(t *testing.T) {
	env := newTestEnv(t, 1)
	env.setting.brackets = nil
	runID := createDraftRun(t, env)

	_, err := env.svc.CalculateRun(context.Background(), runID)
	assert.ErrorIs(t, err, settings.ErrNoBracketsActive)
}

func TestCalculateRun_WrongStatus(t *testing.T) {
	env := newTestEnv(t, 1)
	runID := createDraftRun(t, env)

	_, err := env.svc.CalculateRun(context.Background(), runID)
	require.NoError(t, err)

	_, err = env.svc.CalculateRun(context.Background(), runID)
	assert.ErrorIs(t, err, payroll.ErrInvalidStateTransition)
}

func TestCalculateRun_NoStaff(t *testing.T) {
	env := newTestEnv(t, 0)
	runID := createDraftRun(t, env)

	_, err := env.svc.CalculateRun(context.Background(), runID)
	assert.ErrorIs(t, err, payroll.ErrNoStaffForRun)
}

func TestCalculateRun_RecalculationReplacesItems(t *testing.T) {
	env := newTestEnv(t, 2)
	runID := createDraftRun(t, env)

	_, err := env.svc.CalculateRun(context.Background(), runID)
	require.NoError(t, err)
	require.NoError(t, env.svc.ReopenRun(context.Background(), runID))

	result, err := env.svc.CalculateRun(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ProcessedCount)

	items, err := env.svc.ListItems(context.Background(), runID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestApproval_Lifecycle(t *testing.T) {
	env := newTestEnv(t, 1)
	runID := createDraftRun(t, env)
	ctx := context.Background()

	// Approval before calculation is rejected.
	err := env.svc.ApplyApproval(ctx, runID, "approver-1", time.Now().UTC())
	assert.ErrorIs(t, err, payroll.ErrInvalidStateTransition)

	_, err = env.svc.CalculateRun(ctx, runID)
	require.NoError(t, err)

	require.NoError(t, env.svc.ApplyApproval(ctx, runID, "approver-1", time.Now().UTC()))
	require.NoError(t, env.svc.MarkExported(ctx, runID))

	run, err := env.svc.GetRunSummary(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusExported), run.Status)
	require.NotNil(t, run.ApprovedBy)
	assert.Equal(t, "approver-1", *run.ApprovedBy)

	// Exported runs are immutable.
	assert.ErrorIs(t, env.svc.CancelRun(ctx, runID), payroll.ErrInvalidStateTransition)
	assert.ErrorIs(t, env.svc.ReopenRun(ctx, runID), payroll.ErrInvalidStateTransition)
}

func TestCancelRun_KeepsSupersededItems(t *testing.T) {
	env := newTestEnv(t, 2)
	runID := createDraftRun(t, env)
	ctx := context.Background()

	_, err := env.svc.CalculateRun(ctx, runID)
	require.NoError(t, err)
	require.NoError(t, env.svc.CancelRun(ctx, runID))

	items, err := env.svc.ListItems(ctx, runID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.True(t, item.Superseded)
	}
}

func TestReopenRun_DeletesItems(t *testing.T) {
	env := newTestEnv(t, 2)
	runID := createDraftRun(t, env)
	ctx := context.Background()

	_, err := env.svc.CalculateRun(ctx, runID)
	require.NoError(t, err)
	require.NoError(t, env.svc.ReopenRun(ctx, runID))

	items, err := env.svc.ListItems(ctx, runID)
	require.NoError(t, err)
	assert.Empty(t, items)

	run, err := env.svc.GetRunSummary(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusDraft), run.Status)
	assert.True(t, run.TotalGrossPay.IsZero())
}

func TestListRuns_FilterByStatus(t *testing.T) {
	env := newTestEnv(t, 1)
	runID := createDraftRun(t, env)
	ctx := context.Background()

	_, err := env.svc.CalculateRun(ctx, runID)
	require.NoError(t, err)

	status := payroll.RunStatusCalculated
	result, err := env.svc.ListRuns(ctx, payroll.RunFilter{Status: &status, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, result.Data, 1)

	status = payroll.RunStatusDraft
	result, err = env.svc.ListRuns(ctx, payroll.RunFilter{Status: &status, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, result.Data)
}
