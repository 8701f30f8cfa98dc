package employee

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"
)

const (
	siteA = "aaaaaaaa-0000-4000-8000-000000000001"
	siteB = "bbbbbbbb-0000-4000-8000-000000000002"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeEmployeeRepo struct {
	employees map[string]*Employee
	order     []string
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*Employee)}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *Employee) (*Employee, error) {
	for _, existing := range r.employees {
		if existing.SiteID == e.SiteID && existing.EmployeeCode == e.EmployeeCode {
			return nil, ErrEmployeeCodeAlreadyExists
		}
	}
	r.employees[e.ID] = cloneEmployee(e)
	r.order = append(r.order, e.ID)
	return cloneEmployee(e), nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *Employee) (*Employee, error) {
	if _, ok := r.employees[e.ID]; !ok {
		return nil, ErrEmployeeNotFound
	}
	r.employees[e.ID] = cloneEmployee(e)
	return cloneEmployee(e), nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.employees[id]; !ok {
		return ErrEmployeeNotFound
	}
	delete(r.employees, id)
	for idx, existingID := range r.order {
		if existingID == id {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return cloneEmployee(emp), nil
}

func (r *fakeEmployeeRepo) FindBySiteAndCode(_ context.Context, siteID, code string) (*Employee, error) {
	for _, emp := range r.employees {
		if emp.SiteID == siteID && emp.EmployeeCode == code {
			return cloneEmployee(emp), nil
		}
	}
	return nil, ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) List(_ context.Context, filter ListEmployeesFilter) ([]*Employee, string, error) {
	var filtered []*Employee
	for _, id := range r.order {
		emp := r.employees[id]
		if emp.SiteID != filter.SiteID {
			continue
		}
		if filter.Status != nil && emp.Status != *filter.Status {
			continue
		}
		filtered = append(filtered, cloneEmployee(emp))
	}

	if filter.Offset > len(filtered) {
		return []*Employee{}, "", nil
	}
	end := filter.Offset + filter.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	nextToken := ""
	if end < len(filtered) {
		nextToken = strconv.Itoa(end)
	}
	return filtered[filter.Offset:end], nextToken, nil
}

func cloneEmployee(emp *Employee) *Employee {
	if emp == nil {
		return nil
	}
	clone := *emp
	if emp.HiredAt != nil {
		hired := *emp.HiredAt
		clone.HiredAt = &hired
	}
	return &clone
}

func newTestService(repo Repository, clock Clock) *Service {
	svc := NewService(repo, clock, nil)
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("eeeeeeee-0000-4000-8000-%012d", seq)
	}
	return svc
}

func TestService_CreateEmployee_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeEmployeeRepo(), &stubClock{now: now})

	hired := time.Date(2024, 12, 1, 15, 30, 0, 0, time.UTC)
	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		SiteID:       " " + siteA + " ",
		EmployeeCode: " Emp-001 ",
		Name:         "  Dana   Levi ",
		HiredAt:      &hired,
	})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if created.SiteID != siteA {
		t.Fatalf("expected normalized site id, got %s", created.SiteID)
	}
	if created.EmployeeCode != "emp-001" {
		t.Fatalf("expected normalized employee code, got %s", created.EmployeeCode)
	}
	if created.Name != "Dana Levi" {
		t.Fatalf("expected collapsed name, got %q", created.Name)
	}
	if !created.Active() {
		t.Fatalf("expected default status active, got %s", created.Status)
	}
	if created.HiredAt == nil || !created.HiredAt.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected hired_at: %+v", created.HiredAt)
	}
	if !created.CreatedAt.Equal(now) || !created.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps to use clock now")
	}
}

func TestService_CreateEmployee_DuplicateCode(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeEmployeeRepo(), &stubClock{now: time.Now().UTC()})

	if _, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{SiteID: siteA, EmployeeCode: "emp-1", Name: "Test"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{SiteID: siteA, EmployeeCode: "EMP-1", Name: "Another"})
	if !errors.Is(err, ErrEmployeeCodeAlreadyExists) {
		t.Fatalf("expected ErrEmployeeCodeAlreadyExists, got %v", err)
	}

	if _, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{SiteID: siteB, EmployeeCode: "emp-1", Name: "Other site"}); err != nil {
		t.Fatalf("same code on another site should be allowed: %v", err)
	}
}

func TestService_CreateEmployee_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeEmployeeRepo(), nil)
	bogus := Status("fired")

	cases := []struct {
		in   CreateEmployeeInput
		want error
	}{
		{in: CreateEmployeeInput{SiteID: "site-1", EmployeeCode: "a", Name: "n"}, want: ErrInvalidSiteID},
		{in: CreateEmployeeInput{SiteID: siteA, EmployeeCode: "-a", Name: "n"}, want: ErrInvalidEmployeeCode},
		{in: CreateEmployeeInput{SiteID: siteA, EmployeeCode: "a", Name: "  "}, want: ErrInvalidName},
		{in: CreateEmployeeInput{SiteID: siteA, EmployeeCode: "a", Name: "n", Status: &bogus}, want: ErrInvalidStatus},
	}

	for _, tc := range cases {
		if _, err := svc.CreateEmployee(context.Background(), tc.in); !errors.Is(err, tc.want) {
			t.Errorf("expected %v, got %v", tc.want, err)
		}
	}
}

func TestService_UpdateEmployee_Success(t *testing.T) {
	t.Parallel()

	clk := &stubClock{now: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
	svc := newTestService(newFakeEmployeeRepo(), clk)

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{SiteID: siteA, EmployeeCode: "emp-3", Name: "Noa"})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	clk.now = clk.now.Add(time.Hour)

	newSite := siteB
	newCode := "EMP-999"
	newName := "  Noa Cohen "
	inactive := StatusInactive
	hired := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	updated, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:           created.ID,
		SiteID:       &newSite,
		EmployeeCode: &newCode,
		Name:         &newName,
		Status:       &inactive,
		HiredAt:      &hired,
		HiredAtSet:   true,
	})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	if updated.SiteID != siteB || updated.EmployeeCode != "emp-999" {
		t.Fatalf("expected site move with normalized code, got %s %s", updated.SiteID, updated.EmployeeCode)
	}
	if updated.Name != "Noa Cohen" || updated.Active() {
		t.Fatalf("unexpected name/status: %q %s", updated.Name, updated.Status)
	}
	if updated.HiredAt == nil || !updated.HiredAt.Equal(hired) {
		t.Fatalf("expected hired date to update, got %+v", updated.HiredAt)
	}
	if !updated.UpdatedAt.Equal(clk.now) {
		t.Fatalf("expected updated timestamp to use clock")
	}

	cleared, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: created.ID, HiredAtSet: true})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}
	if cleared.HiredAt != nil {
		t.Fatalf("expected hired date to be cleared")
	}
}

func TestService_UpdateEmployee_CodeConflictOnSiteMove(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeEmployeeRepo(), nil)

	if _, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{SiteID: siteB, EmployeeCode: "emp-1", Name: "B"}); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	moving, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{SiteID: siteA, EmployeeCode: "emp-1", Name: "A"})
	if err != nil {
		t.Fatalf("seed error: %v", err)
	}

	target := siteB
	_, err = svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: moving.ID, SiteID: &target})
	if !errors.Is(err, ErrEmployeeCodeAlreadyExists) {
		t.Fatalf("expected ErrEmployeeCodeAlreadyExists, got %v", err)
	}
}

func TestService_DeleteAndGetEmployee(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeEmployeeRepo(), nil)
	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{SiteID: siteA, EmployeeCode: "emp-5", Name: "Gone"})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if err := svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: created.ID}); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}
	if _, err := svc.GetEmployee(context.Background(), GetEmployeeInput{ID: created.ID}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	if err := svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: "nope"}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestService_ListEmployees_FilterAndPagination(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeEmployeeRepo(), &stubClock{now: time.Now().UTC()})

	statuses := []Status{StatusActive, StatusInactive, StatusActive}
	for i, status := range statuses {
		status := status
		if _, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
			SiteID:       siteA,
			EmployeeCode: fmt.Sprintf("emp-%d", i),
			Name:         fmt.Sprintf("User%d", i),
			Status:       &status,
		}); err != nil {
			t.Fatalf("unexpected seed error: %v", err)
		}
	}

	inactive := StatusInactive
	result, err := svc.ListEmployees(context.Background(), ListEmployeesInput{SiteID: siteA, PageSize: 2, Status: &inactive})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(result.Employees) != 1 {
		t.Fatalf("expected 1 inactive employee, got %d", len(result.Employees))
	}

	active := StatusActive
	page1, err := svc.ListEmployees(context.Background(), ListEmployeesInput{SiteID: siteA, PageSize: 1, Status: &active})
	if err != nil {
		t.Fatalf("ListEmployees active returned error: %v", err)
	}
	if len(page1.Employees) != 1 || page1.NextPageToken == "" {
		t.Fatalf("expected one employee and a next token, got %d %q", len(page1.Employees), page1.NextPageToken)
	}

	page2, err := svc.ListEmployees(context.Background(), ListEmployeesInput{SiteID: siteA, PageSize: 1, PageToken: page1.NextPageToken, Status: &active})
	if err != nil {
		t.Fatalf("ListEmployees page2 returned error: %v", err)
	}
	if len(page2.Employees) != 1 || page2.NextPageToken != "" {
		t.Fatalf("expected last page, got %d %q", len(page2.Employees), page2.NextPageToken)
	}
}

func TestService_ListEmployees_InvalidSiteID(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeEmployeeRepo(), nil)

	_, err := svc.ListEmployees(context.Background(), ListEmployeesInput{SiteID: ""})
	if !errors.Is(err, ErrInvalidSiteID) {
		t.Fatalf("expected ErrInvalidSiteID, got %v", err)
	}
}
