package payroll_test

import (
	"context"
	"database/sql"
	"slices"

	"go-madrasah/internal/employee"
	"go-madrasah/internal/messaging/kafka"
	"go-madrasah/internal/notification"
	"go-madrasah/internal/payroll"

	"gorm.io/gorm"
)

// fakeRepo keeps payroll state in memory. createRunFn injects a persist
// failure.
type fakeRepo struct {
	settings   *payroll.Settings
	structures []payroll.SalaryStructure
	advances   []payroll.Advance
	bonuses    []payroll.Bonus
	runs       []*payroll.Run

	createRunFn func(ctx context.Context, run *payroll.Run) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) payroll.Repository { return f }

func (f *fakeRepo) GetSettings(ctx context.Context, tenantID string) (*payroll.Settings, error) {
	if f.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	s := *f.settings
	return &s, nil
}

func (f *fakeRepo) SaveSettings(ctx context.Context, s *payroll.Settings) error {
	cp := *s
	f.settings = &cp
	return nil
}

func (f *fakeRepo) CreateStructure(ctx context.Context, s *payroll.SalaryStructure) error {
	f.structures = append(f.structures, *s)
	return nil
}

func (f *fakeRepo) DeactivateStructures(ctx context.Context, tenantID, employeeID string) error {
	for i := range f.structures {
		if f.structures[i].EmployeeID.String() == employeeID {
			f.structures[i].IsActive = false
		}
	}
	return nil
}

func (f *fakeRepo) FindActiveStructure(ctx context.Context, tenantID, employeeID string) (*payroll.SalaryStructure, error) {
	for _, s := range f.structures {
		if s.EmployeeID.String() == employeeID && s.IsActive {
			cp := s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindStructureByID(ctx context.Context, tenantID, id string) (*payroll.SalaryStructure, error) {
	for _, s := range f.structures {
		if s.ID.String() == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindStructures(ctx context.Context, tenantID, employeeID string) ([]payroll.SalaryStructure, error) {
	var out []payroll.SalaryStructure
	for _, s := range f.structures {
		if employeeID == "" || s.EmployeeID.String() == employeeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStructure(ctx context.Context, s *payroll.SalaryStructure) error {
	for i := range f.structures {
		if f.structures[i].ID == s.ID {
			f.structures[i] = *s
		}
	}
	return nil
}

func (f *fakeRepo) CreateAdvance(ctx context.Context, a *payroll.Advance) error {
	f.advances = append(f.advances, *a)
	return nil
}

func (f *fakeRepo) FindAdvanceByID(ctx context.Context, tenantID, id string) (*payroll.Advance, error) {
	for _, a := range f.advances {
		if a.ID.String() == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindAdvances(ctx context.Context, tenantID, employeeID string, activeOnly bool) ([]payroll.Advance, error) {
	var out []payroll.Advance
	for _, a := range f.advances {
		if employeeID != "" && a.EmployeeID.String() != employeeID {
			continue
		}
		if activeOnly && !a.IsActive {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) ListOutstandingAdvances(ctx context.Context, tenantID, employeeID string) ([]payroll.Advance, error) {
	var out []payroll.Advance
	for _, a := range f.advances {
		if a.EmployeeID.String() == employeeID && a.IsActive && a.RemainingAmount.IsPositive() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateAdvance(ctx context.Context, a *payroll.Advance) error {
	for i := range f.advances {
		if f.advances[i].ID == a.ID {
			f.advances[i] = *a
		}
	}
	return nil
}

func (f *fakeRepo) CreateBonus(ctx context.Context, b *payroll.Bonus) error {
	f.bonuses = append(f.bonuses, *b)
	return nil
}

func (f *fakeRepo) FindBonuses(ctx context.Context, tenantID string, year, month int) ([]payroll.Bonus, error) {
	var out []payroll.Bonus
	for _, b := range f.bonuses {
		if (year == 0 || b.EffectiveYear == year) && (month == 0 || b.EffectiveMonth == month) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteBonus(ctx context.Context, tenantID, id string) (bool, error) {
	before := len(f.bonuses)
	f.bonuses = slices.DeleteFunc(f.bonuses, func(b payroll.Bonus) bool { return b.ID.String() == id })
	return len(f.bonuses) < before, nil
}

func (f *fakeRepo) RunExists(ctx context.Context, tenantID string, year, month int, department string) (bool, error) {
	for _, r := range f.runs {
		if r.Year == year && r.Month == month && r.Department == department && r.Status != payroll.StatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CreateRun(ctx context.Context, run *payroll.Run) error {
	if f.createRunFn != nil {
		return f.createRunFn(ctx, run)
	}
	cp := *run
	cp.Items = slices.Clone(run.Items)
	f.runs = append(f.runs, &cp)
	return nil
}

func (f *fakeRepo) FindRuns(ctx context.Context, tenantID string, filter payroll.RunFilter) ([]payroll.Run, error) {
	var out []payroll.Run
	for _, r := range f.runs {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Year > 0 && r.Year != filter.Year {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRepo) FindRunByID(ctx context.Context, tenantID, id string, withItems bool) (*payroll.Run, error) {
	for _, r := range f.runs {
		if r.ID.String() == id {
			cp := *r
			cp.Items = nil
			if withItems {
				cp.Items = slices.Clone(r.Items)
			}
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateRun(ctx context.Context, run *payroll.Run) error {
	for i, r := range f.runs {
		if r.ID == run.ID {
			items := r.Items
			cp := *run
			cp.Items = items
			f.runs[i] = &cp
		}
	}
	return nil
}

func (f *fakeRepo) DeleteRun(ctx context.Context, tenantID, id string) error {
	f.runs = slices.DeleteFunc(f.runs, func(r *payroll.Run) bool { return r.ID.String() == id })
	return nil
}

func (f *fakeRepo) FindItem(ctx context.Context, tenantID, runID, itemID string) (*payroll.Item, error) {
	for _, r := range f.runs {
		if r.ID.String() != runID {
			continue
		}
		for _, it := range r.Items {
			if it.ID.String() == itemID {
				cp := it
				return &cp, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateItem(ctx context.Context, item *payroll.Item) error {
	for _, r := range f.runs {
		for i := range r.Items {
			if r.Items[i].ID == item.ID {
				r.Items[i] = *item
			}
		}
	}
	return nil
}

type fakeEmployees struct {
	list []employee.Employee
	dept string
}

func (f *fakeEmployees) FindByID(ctx context.Context, tenantID, id string) (*employee.Employee, error) {
	for _, e := range f.list {
		if e.ID.String() == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployees) ListPayable(ctx context.Context, tenantID, department string, ids []string) ([]employee.Employee, error) {
	f.dept = department
	var out []employee.Employee
	for _, e := range f.list {
		if department != "" && e.Department != department {
			continue
		}
		if len(ids) > 0 && !slices.Contains(ids, e.ID.String()) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeSummaries struct {
	byEmployee map[string]payroll.AttendanceSummary
	leaves     map[string]payroll.LeaveSummary
}

func (f *fakeSummaries) Build(ctx context.Context, tenantID string, emp employee.Employee, year, month int, settings payroll.Settings) (payroll.AttendanceSummary, payroll.LeaveSummary, error) {
	return f.byEmployee[emp.ID.String()], f.leaves[emp.ID.String()], nil
}

type fakeNotifier struct {
	requests []notification.NotifyRequest
}

func (f *fakeNotifier) Notify(req notification.NotifyRequest) bool {
	f.requests = append(f.requests, req)
	return true
}

type fakeOutbox struct {
	kafka.OutboxRepository
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, e kafka.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}
