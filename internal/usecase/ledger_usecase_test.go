package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/payroll/internal/domain"
)

// memLedgerStore is an in-memory payroll history. Writes are staged on the
// transaction and only become visible on commit.
type memLedgerStore struct {
	mu        sync.Mutex
	records   []*domain.PayrollRecord
	events    []*domain.OutboxEvent
	nextID    int64
	lockCalls int

	beginErr  error
	lockErr   error
	appendErr error
	outboxErr error
	commitErr error
}

type memTx struct {
	store   *memLedgerStore
	records []*domain.PayrollRecord
	events  []*domain.OutboxEvent
	done    bool
}

func (tx *memTx) Commit(ctx context.Context) error {
	if tx.store.commitErr != nil {
		return tx.store.commitErr
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	tx.store.records = append(tx.store.records, tx.records...)
	tx.store.events = append(tx.store.events, tx.events...)
	tx.done = true
	return nil
}

func (tx *memTx) Rollback(ctx context.Context) error {
	if tx.done {
		return nil
	}
	tx.records = nil
	tx.events = nil
	tx.done = true
	return nil
}

func (s *memLedgerStore) Begin(ctx context.Context) (Transaction, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &memTx{store: s}, nil
}

func (s *memLedgerStore) LockForAppend(ctx context.Context, tx Transaction) error {
	s.lockCalls++
	return s.lockErr
}

func (s *memLedgerStore) Append(ctx context.Context, tx Transaction, record *domain.PayrollRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.nextID++
	record.ID = s.nextID
	stored := *record
	tx.(*memTx).records = append(tx.(*memTx).records, &stored)
	return nil
}

func (s *memLedgerStore) Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error {
	if s.outboxErr != nil {
		return s.outboxErr
	}
	tx.(*memTx).events = append(tx.(*memTx).events, event)
	return nil
}

func (s *memLedgerStore) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	return s.events, nil
}

func (s *memLedgerStore) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return nil
}

func (s *memLedgerStore) GetByID(ctx context.Context, id int64) (*domain.PayrollRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrPayrollRecordNotFound
}

func (s *memLedgerStore) List(ctx context.Context, limit, offset int) ([]*domain.PayrollRecord, error) {
	s.mu.Lock()
	out := make([]*domain.PayrollRecord, 0, len(s.records))
	for _, r := range s.records {
		cp := *r
		out = append(out, &cp)
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DateCreated.Equal(out[j].DateCreated) {
			return out[i].DateCreated.After(out[j].DateCreated)
		}
		return out[i].ID > out[j].ID
	})

	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func newTestLedger(store *memLedgerStore, clock func() time.Time) *LedgerUseCase {
	ids := 0
	uc := NewLedgerUseCase(store, store, store, idGenFunc(func() string {
		ids++
		return fmt.Sprintf("evt-%d", ids)
	}), nil)
	if clock != nil {
		uc.WithClock(clock)
	}
	return uc
}

type idGenFunc func() string

func (f idGenFunc) Generate() string { return f() }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func twoEmployeeRun(t *testing.T) *domain.PayrollRunResult {
	t.Helper()

	period, err := domain.ParsePeriod("2024-03-01", "2024-03-15")
	if err != nil {
		t.Fatalf("parse period: %v", err)
	}

	run, err := domain.RunPayroll(period, []*domain.Employee{
		{ID: 1, Name: "Anna", DailyWage: dec("50"), OvertimeCost: dec("10"), BankLimit: dec("100")},
		{ID: 2, Name: "Bill", DailyWage: dec("40"), OvertimeCost: dec("0"), BankLimit: dec("0")},
	}, map[int64]domain.WorkInput{
		1: {EmployeeID: 1, Days: dec("5"), OvertimeHours: dec("2")},
		2: {EmployeeID: 2, Days: dec("10"), OvertimeHours: dec("0")},
	})
	if err != nil {
		t.Fatalf("run payroll: %v", err)
	}
	return run
}

func TestLedgerUseCase_Commit(t *testing.T) {
	store := &memLedgerStore{}
	committedAt := time.Date(2024, 3, 16, 9, 30, 0, 123456789, time.UTC)
	uc := newTestLedger(store, func() time.Time { return committedAt })

	rec, err := uc.Commit(context.Background(), twoEmployeeRun(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.ID != 1 {
		t.Fatalf("expected id 1, got %d", rec.ID)
	}
	if got := rec.TotalCost.StringFixed(2); got != "670.00" {
		t.Fatalf("expected total cost 670.00, got %s", got)
	}
	for _, line := range []string{"Anna: 270.00 (100.00, 170.00)", "Bill: 400.00 (0.00, 400.00)"} {
		if !strings.Contains(rec.Details, line) {
			t.Fatalf("details missing %q:\n%s", line, rec.Details)
		}
	}
	if !rec.DateCreated.Equal(committedAt.Truncate(time.Microsecond)) {
		t.Fatalf("expected date_created from ledger clock, got %v", rec.DateCreated)
	}
	if store.lockCalls != 1 {
		t.Fatalf("expected append lock to be taken once, got %d", store.lockCalls)
	}

	if len(store.records) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(store.records))
	}
	if len(store.events) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(store.events))
	}
	evt := store.events[0]
	if evt.EventType != domain.EventTypePayrollCommitted || evt.AggregateID != "1" {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if evt.Payload["total_cost"] != "670.00" {
		t.Fatalf("unexpected event payload: %+v", evt.Payload)
	}
}

func TestLedgerUseCase_CommitFailuresStoreNothing(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name  string
		setup func(*memLedgerStore)
	}{
		{name: "begin fails", setup: func(s *memLedgerStore) { s.beginErr = boom }},
		{name: "lock fails", setup: func(s *memLedgerStore) { s.lockErr = boom }},
		{name: "append fails", setup: func(s *memLedgerStore) { s.appendErr = boom }},
		{name: "outbox fails", setup: func(s *memLedgerStore) { s.outboxErr = boom }},
		{name: "commit fails", setup: func(s *memLedgerStore) { s.commitErr = boom }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memLedgerStore{}
			tt.setup(store)
			uc := newTestLedger(store, nil)
			run := twoEmployeeRun(t)
			total := run.GrandTotal

			rec, err := uc.Commit(context.Background(), run)
			if !errors.Is(err, domain.ErrPersistenceFailure) {
				t.Fatalf("expected ErrPersistenceFailure, got %v", err)
			}
			if !errors.Is(err, boom) {
				t.Fatalf("expected underlying error to be preserved, got %v", err)
			}
			if rec != nil {
				t.Fatalf("expected no record on failure")
			}
			if len(store.records) != 0 || len(store.events) != 0 {
				t.Fatalf("expected nothing stored, got %d records %d events", len(store.records), len(store.events))
			}

			// The same run can be committed again once storage recovers.
			*store = memLedgerStore{nextID: store.nextID}
			if !run.GrandTotal.Equal(total) {
				t.Fatalf("run was modified by a failed commit")
			}
			if _, err := uc.Commit(context.Background(), run); err != nil {
				t.Fatalf("retry failed: %v", err)
			}
			if len(store.records) != 1 {
				t.Fatalf("expected retry to store the record")
			}
		})
	}
}

func TestLedgerUseCase_CommitRejectsNilRun(t *testing.T) {
	uc := newTestLedger(&memLedgerStore{}, nil)

	if _, err := uc.Commit(context.Background(), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLedgerUseCase_CommitRejectsRunWithoutEmployees(t *testing.T) {
	store := &memLedgerStore{}
	uc := newTestLedger(store, nil)

	run := twoEmployeeRun(t)
	run.LineItems = nil
	run.GrandTotal = decimal.Zero

	_, err := uc.Commit(context.Background(), run)

	var inputErr *domain.InputError
	if !errors.As(err, &inputErr) || inputErr.Field != "employees" {
		t.Fatalf("expected an employees InputError, got %v", err)
	}
	history, err := uc.ListHistory(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected nothing stored, got %d records", len(history))
	}
}

func TestLedgerUseCase_ListHistoryOrdering(t *testing.T) {
	store := &memLedgerStore{}
	base := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Hour), base.Add(time.Hour), base.Add(2 * time.Hour)}
	call := 0
	uc := newTestLedger(store, func() time.Time {
		tm := times[call]
		call++
		return tm
	})

	seen := 0
	for range times {
		if _, err := uc.Commit(context.Background(), twoEmployeeRun(t)); err != nil {
			t.Fatalf("commit: %v", err)
		}

		history, err := uc.ListHistory(context.Background(), 0, 0)
		if err != nil {
			t.Fatalf("list history: %v", err)
		}
		if len(history) < seen {
			t.Fatalf("history shrank from %d to %d", seen, len(history))
		}
		seen = len(history)
	}

	history, err := uc.ListHistory(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}

	wantIDs := []int64{4, 3, 2, 1}
	for i, rec := range history {
		if rec.ID != wantIDs[i] {
			t.Fatalf("position %d: expected id %d, got %d", i, wantIDs[i], rec.ID)
		}
		if i > 0 && rec.DateCreated.After(history[i-1].DateCreated) {
			t.Fatalf("date_created increases at position %d", i)
		}
	}

	page, err := uc.ListHistory(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 2 || page[0].ID != 3 || page[1].ID != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestLedgerUseCase_GetRecord(t *testing.T) {
	store := &memLedgerStore{}
	uc := newTestLedger(store, nil)

	rec, err := uc.Commit(context.Background(), twoEmployeeRun(t))
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := uc.GetRecord(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if got.Details != rec.Details || !got.TotalCost.Equal(rec.TotalCost) {
		t.Fatalf("stored record differs from committed one")
	}

	if _, err := uc.GetRecord(context.Background(), 99); !errors.Is(err, domain.ErrPayrollRecordNotFound) {
		t.Fatalf("expected ErrPayrollRecordNotFound, got %v", err)
	}
}

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	tests := []struct {
		name          string
		records       []*domain.PayrollRecord
		wantChecked   int
		wantBadIDs    []int64
		wantConsistent bool
	}{
		{
			name:          "empty ledger",
			wantConsistent: true,
		},
		{
			name: "all records add up",
			records: []*domain.PayrollRecord{
				{ID: 1, TotalCost: dec("670.00"), Details: "Anna: 270.00 (100.00, 170.00)\nBill: 400.00 (0.00, 400.00)"},
				{ID: 2, TotalCost: dec("0.00"), Details: ""},
			},
			wantChecked:   2,
			wantConsistent: true,
		},
		{
			name: "total does not match details",
			records: []*domain.PayrollRecord{
				{ID: 1, TotalCost: dec("670.00"), Details: "Anna: 270.00 (100.00, 170.00)\nBill: 400.00 (0.00, 400.00)"},
				{ID: 2, TotalCost: dec("500.00"), Details: "Anna: 270.00 (100.00, 170.00)"},
				{ID: 3, TotalCost: dec("1.00"), Details: "unparseable"},
			},
			wantChecked: 3,
			wantBadIDs:  []int64{3, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memLedgerStore{records: tt.records}
			uc := newTestLedger(store, nil)

			got, err := uc.CheckConsistency(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Checked != tt.wantChecked {
				t.Fatalf("expected %d checked, got %d", tt.wantChecked, got.Checked)
			}
			if got.Consistent() != tt.wantConsistent {
				t.Fatalf("Consistent() = %v, want %v", got.Consistent(), tt.wantConsistent)
			}
			if len(got.Inconsistent) != len(tt.wantBadIDs) {
				t.Fatalf("expected %d inconsistent records, got %+v", len(tt.wantBadIDs), got.Inconsistent)
			}
			for i, id := range tt.wantBadIDs {
				if got.Inconsistent[i].ID != id {
					t.Fatalf("expected inconsistent id %d at %d, got %d", id, i, got.Inconsistent[i].ID)
				}
			}
		})
	}
}
