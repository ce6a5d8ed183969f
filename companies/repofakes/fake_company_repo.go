package companyrepofakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/go-company-auth/companies"
	apperrors "github.com/jrsteele09/go-company-auth/internal/errors"
)

var _ companies.Repo = (*FakeCompanyRepo)(nil)

// FakeCompanyRepo is an in-memory company directory.
type FakeCompanyRepo struct {
	companies map[string]*companies.Company
	lock      sync.RWMutex
	nowFunc   func() time.Time

	upsertCalls int
}

func NewFakeCompanyRepo() *FakeCompanyRepo {
	return &FakeCompanyRepo{
		companies: make(map[string]*companies.Company),
		nowFunc:   time.Now,
	}
}

// WithNowFunc overrides the clock used for CreatedAt/UpdatedAt.
func (cr *FakeCompanyRepo) WithNowFunc(now func() time.Time) *FakeCompanyRepo {
	cr.nowFunc = now
	return cr
}

func (cr *FakeCompanyRepo) FindByID(_ context.Context, id string) (*companies.Company, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()
	company, ok := cr.companies[id]
	if !ok {
		return nil, nil
	}
	return company.Clone(), nil
}

func (cr *FakeCompanyRepo) Upsert(_ context.Context, company *companies.Company) (*companies.Company, error) {
	if err := company.Validate(); err != nil {
		return nil, err
	}

	cr.lock.Lock()
	defer cr.lock.Unlock()
	cr.upsertCalls++

	if company.Handle != nil {
		for id, existing := range cr.companies {
			if id != company.ID && existing.Handle != nil && *existing.Handle == *company.Handle {
				return nil, apperrors.Wrapf(apperrors.ErrHandleTaken, "handle %q", *company.Handle)
			}
		}
	}

	now := cr.nowFunc().UTC()
	stored := company.Clone()
	stored.UpdatedAt = now
	if existing, ok := cr.companies[company.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	cr.companies[company.ID] = stored
	return stored.Clone(), nil
}

func (cr *FakeCompanyRepo) Delete(_ context.Context, id string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	delete(cr.companies, id)
	return nil
}

func (cr *FakeCompanyRepo) List(_ context.Context, offset, limit int) ([]*companies.Company, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	list := make([]*companies.Company, 0, len(cr.companies))
	for _, c := range cr.companies {
		list = append(list, c.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil, nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end], nil
}

// UpsertCalls returns how many times Upsert was invoked.
func (cr *FakeCompanyRepo) UpsertCalls() int {
	cr.lock.RLock()
	defer cr.lock.RUnlock()
	return cr.upsertCalls
}

// Len returns the number of stored companies.
func (cr *FakeCompanyRepo) Len() int {
	cr.lock.RLock()
	defer cr.lock.RUnlock()
	return len(cr.companies)
}
