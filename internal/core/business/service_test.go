package business

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeBusinessRepo struct {
	businesses map[string]*Business
	order      []string
	sites      map[string][]*Site
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{
		businesses: make(map[string]*Business),
		sites:      make(map[string][]*Site),
	}
}

func (r *fakeBusinessRepo) Create(_ context.Context, b *Business) (*Business, error) {
	clone := *b
	r.businesses[b.ID] = &clone
	r.order = append(r.order, b.ID)
	out := clone
	return &out, nil
}

func (r *fakeBusinessRepo) Update(_ context.Context, b *Business) (*Business, error) {
	if _, ok := r.businesses[b.ID]; !ok {
		return nil, ErrBusinessNotFound
	}
	clone := *b
	r.businesses[b.ID] = &clone
	out := clone
	return &out, nil
}

func (r *fakeBusinessRepo) FindByID(_ context.Context, id string) (*Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, ErrBusinessNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBusinessRepo) FindByCode(_ context.Context, code string) (*Business, error) {
	for _, b := range r.businesses {
		if b.Code == code {
			clone := *b
			return &clone, nil
		}
	}
	return nil, ErrBusinessNotFound
}

func (r *fakeBusinessRepo) List(_ context.Context, filter ListBusinessesFilter) ([]*Business, string, error) {
	var matched []*Business
	for _, id := range r.order {
		b := r.businesses[id]
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		clone := *b
		matched = append(matched, &clone)
	}
	if filter.Offset >= len(matched) {
		return nil, "", nil
	}
	end := filter.Offset + filter.Limit
	next := ""
	if end < len(matched) {
		next = strconv.Itoa(end)
	} else {
		end = len(matched)
	}
	return matched[filter.Offset:end], next, nil
}

func (r *fakeBusinessRepo) CreateSite(_ context.Context, site *Site) (*Site, error) {
	for _, existing := range r.sites[site.BusinessID] {
		if existing.Name == site.Name {
			return nil, ErrSiteNameAlreadyExists
		}
	}
	clone := *site
	r.sites[site.BusinessID] = append(r.sites[site.BusinessID], &clone)
	out := clone
	return &out, nil
}

func (r *fakeBusinessRepo) ListSites(_ context.Context, businessID string) ([]*Site, error) {
	sites := append([]*Site(nil), r.sites[businessID]...)
	sort.Slice(sites, func(i, j int) bool { return sites[i].Name < sites[j].Name })
	return sites, nil
}

func newTestService(repo Repository, now time.Time) *Service {
	svc := NewService(repo, &stubClock{now: now}, nil)
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("00000000-0000-4000-8000-%012d", seq)
	}
	return svc
}

func TestService_CreateBusiness_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeBusinessRepo(), now)

	created, err := svc.CreateBusiness(context.Background(), CreateBusinessInput{Name: "  Cafe Dizengoff ", Code: " Cafe-TLV "})
	if err != nil {
		t.Fatalf("CreateBusiness returned error: %v", err)
	}

	if created.ID != "00000000-0000-4000-8000-000000000001" {
		t.Fatalf("expected generated id, got %s", created.ID)
	}
	if created.Name != "Cafe Dizengoff" || created.Code != "cafe-tlv" {
		t.Fatalf("expected normalized fields, got %q %q", created.Name, created.Code)
	}
	if created.Status != StatusActive || !created.CreatedAt.Equal(now) {
		t.Fatalf("unexpected status or timestamp: %+v", created)
	}
}

func TestService_CreateBusiness_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeBusinessRepo(), time.Now())

	if _, err := svc.CreateBusiness(context.Background(), CreateBusinessInput{Name: " ", Code: "ok"}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := svc.CreateBusiness(context.Background(), CreateBusinessInput{Name: "Shop", Code: "has space"}); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestService_CreateBusiness_DuplicateCode(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeBusinessRepo(), time.Now())

	if _, err := svc.CreateBusiness(context.Background(), CreateBusinessInput{Name: "One", Code: "shop"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CreateBusiness(context.Background(), CreateBusinessInput{Name: "Two", Code: "SHOP"}); !errors.Is(err, ErrCodeAlreadyExists) {
		t.Fatalf("expected ErrCodeAlreadyExists, got %v", err)
	}
}

func TestService_UpdateBusiness(t *testing.T) {
	t.Parallel()

	clk := &stubClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := newFakeBusinessRepo()
	svc := NewService(repo, clk, nil)
	svc.newID = func() string { return "11111111-1111-4111-8111-111111111111" }

	created, err := svc.CreateBusiness(context.Background(), CreateBusinessInput{Name: "Old", Code: "old"})
	if err != nil {
		t.Fatalf("CreateBusiness returned error: %v", err)
	}

	clk.now = clk.now.Add(time.Hour)
	name := "New"
	inactive := StatusInactive
	updated, err := svc.UpdateBusiness(context.Background(), UpdateBusinessInput{ID: created.ID, Name: &name, Status: &inactive})
	if err != nil {
		t.Fatalf("UpdateBusiness returned error: %v", err)
	}
	if updated.Name != "New" || updated.Status != StatusInactive || !updated.UpdatedAt.Equal(clk.now) {
		t.Fatalf("update not applied: %+v", updated)
	}

	bogus := Status("closed")
	if _, err := svc.UpdateBusiness(context.Background(), UpdateBusinessInput{ID: created.ID, Status: &bogus}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestService_GetBusiness_InvalidID(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeBusinessRepo(), time.Now())

	if _, err := svc.GetBusiness(context.Background(), "company-1"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := svc.GetBusiness(context.Background(), "22222222-2222-4222-8222-222222222222"); !errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
}

func TestService_ListBusinesses_Pagination(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeBusinessRepo(), time.Now())
	for i := 0; i < 3; i++ {
		if _, err := svc.CreateBusiness(context.Background(), CreateBusinessInput{Name: "B", Code: fmt.Sprintf("b-%d", i)}); err != nil {
			t.Fatalf("seed error: %v", err)
		}
	}

	page1, err := svc.ListBusinesses(context.Background(), ListBusinessesInput{PageSize: 2})
	if err != nil {
		t.Fatalf("ListBusinesses returned error: %v", err)
	}
	if len(page1.Businesses) != 2 || page1.NextPageToken != "2" {
		t.Fatalf("unexpected first page: %d %q", len(page1.Businesses), page1.NextPageToken)
	}

	page2, err := svc.ListBusinesses(context.Background(), ListBusinessesInput{PageSize: 2, PageToken: page1.NextPageToken})
	if err != nil {
		t.Fatalf("ListBusinesses returned error: %v", err)
	}
	if len(page2.Businesses) != 1 || page2.NextPageToken != "" {
		t.Fatalf("unexpected second page: %d %q", len(page2.Businesses), page2.NextPageToken)
	}

	if _, err := svc.ListBusinesses(context.Background(), ListBusinessesInput{PageToken: "x"}); !errors.Is(err, ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
}

func TestService_Sites(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeBusinessRepo(), time.Now())
	b, err := svc.CreateBusiness(context.Background(), CreateBusinessInput{Name: "Chain", Code: "chain"})
	if err != nil {
		t.Fatalf("CreateBusiness returned error: %v", err)
	}

	for _, name := range []string{" Haifa ", "Eilat"} {
		if _, err := svc.CreateSite(context.Background(), CreateSiteInput{BusinessID: b.ID, Name: name}); err != nil {
			t.Fatalf("CreateSite returned error: %v", err)
		}
	}

	if _, err := svc.CreateSite(context.Background(), CreateSiteInput{BusinessID: b.ID, Name: "Haifa"}); !errors.Is(err, ErrSiteNameAlreadyExists) {
		t.Fatalf("expected ErrSiteNameAlreadyExists, got %v", err)
	}
	if _, err := svc.CreateSite(context.Background(), CreateSiteInput{BusinessID: b.ID, Name: ""}); !errors.Is(err, ErrInvalidSiteName) {
		t.Fatalf("expected ErrInvalidSiteName, got %v", err)
	}
	if _, err := svc.CreateSite(context.Background(), CreateSiteInput{BusinessID: "33333333-3333-4333-8333-333333333333", Name: "X"}); !errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}

	sites, err := svc.ListSites(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("ListSites returned error: %v", err)
	}
	if len(sites) != 2 || sites[0].Name != "Eilat" || sites[1].Name != "Haifa" {
		t.Fatalf("unexpected sites: %+v", sites)
	}
}
