package companyrepofakes_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-company-auth/companies"
	"github.com/jrsteele09/go-company-auth/companies/companiestest"
	companyrepofakes "github.com/jrsteele09/go-company-auth/companies/repofakes"
	"github.com/jrsteele09/go-company-auth/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestFakeCompanyRepo(t *testing.T) {
	companiestest.RunRepoSuite(t, func(t *testing.T) companies.Repo {
		return companyrepofakes.NewFakeCompanyRepo()
	})
}

func TestFakeCompanyRepo_ReturnsCopies(t *testing.T) {
	repo := companyrepofakes.NewFakeCompanyRepo()
	ctx := context.Background()

	in := &companies.Company{ID: "acme-1", Name: "Acme", Handle: utils.Ptr("acme")}
	_, err := repo.Upsert(ctx, in)
	require.NoError(t, err)

	*in.Handle = "mutated"
	found, err := repo.FindByID(ctx, "acme-1")
	require.NoError(t, err)
	require.Equal(t, "acme", *found.Handle)

	found.Name = "changed"
	again, err := repo.FindByID(ctx, "acme-1")
	require.NoError(t, err)
	require.Equal(t, "Acme", again.Name)
	require.Equal(t, 1, repo.UpsertCalls())
	require.Equal(t, 1, repo.Len())
}
