// Package companiestest holds behaviour checks shared by every companies.Repo.
package companiestest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-company-auth/companies"
	apperrors "github.com/jrsteele09/go-company-auth/internal/errors"
	"github.com/jrsteele09/go-company-auth/internal/utils"
	"github.com/stretchr/testify/require"
)

// RunRepoSuite exercises the directory contract against a fresh repo per sub-test.
func RunRepoSuite(t *testing.T, newRepo func(t *testing.T) companies.Repo) {
	t.Helper()
	ctx := context.Background()

	t.Run("find missing returns nil", func(t *testing.T) {
		repo := newRepo(t)
		company, err := repo.FindByID(ctx, "missing")
		require.NoError(t, err)
		require.Nil(t, company)
	})

	t.Run("upsert inserts and round trips", func(t *testing.T) {
		repo := newRepo(t)
		expiry := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		in := &companies.Company{
			ID:             "acme-1",
			Name:           "Acme",
			Handle:         utils.Ptr("acme"),
			Description:    utils.Ptr("Anvils and rockets"),
			LogoURL:        utils.Ptr("https://cdn.example.com/acme.png"),
			Phone:          utils.Ptr("+1-555-0100"),
			AccessToken:    utils.Ptr("tok"),
			RefreshToken:   utils.Ptr("ref"),
			TokenExpiresAt: &expiry,
			Metadata:       map[string]any{"plan": "pro"},
		}
		stored, err := repo.Upsert(ctx, in)
		require.NoError(t, err)
		require.False(t, stored.CreatedAt.IsZero())
		require.True(t, stored.CreatedAt.Equal(stored.UpdatedAt))

		found, err := repo.FindByID(ctx, "acme-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		require.Equal(t, "Acme", found.Name)
		require.Equal(t, "acme", utils.Value(found.Handle))
		require.Equal(t, "Anvils and rockets", utils.Value(found.Description))
		require.Equal(t, "https://cdn.example.com/acme.png", utils.Value(found.LogoURL))
		require.Equal(t, "+1-555-0100", utils.Value(found.Phone))
		require.Equal(t, "tok", utils.Value(found.AccessToken))
		require.Equal(t, "ref", utils.Value(found.RefreshToken))
		require.NotNil(t, found.TokenExpiresAt)
		require.True(t, expiry.Equal(*found.TokenExpiresAt))
		require.Equal(t, "pro", found.Metadata["plan"])
	})

	t.Run("upsert twice keeps one row and created_at", func(t *testing.T) {
		repo := newRepo(t)
		first, err := repo.Upsert(ctx, &companies.Company{ID: "acme-1", Name: "Acme", AccessToken: utils.Ptr("tok-1")})
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		second, err := repo.Upsert(ctx, &companies.Company{ID: "acme-1", Name: "Acme Corp", AccessToken: utils.Ptr("tok-2"), RefreshToken: utils.Ptr("ref-2")})
		require.NoError(t, err)

		require.True(t, first.CreatedAt.Equal(second.CreatedAt))
		require.True(t, second.UpdatedAt.After(first.UpdatedAt))

		list, err := repo.List(ctx, 0, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)

		found, err := repo.FindByID(ctx, "acme-1")
		require.NoError(t, err)
		require.Equal(t, "Acme Corp", found.Name)
		require.Equal(t, "tok-2", utils.Value(found.AccessToken))
		require.Equal(t, "ref-2", utils.Value(found.RefreshToken))
		require.True(t, first.CreatedAt.Equal(found.CreatedAt))
	})

	t.Run("upsert overwrites nullable fields", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Upsert(ctx, &companies.Company{ID: "acme-1", Name: "Acme", Phone: utils.Ptr("+1"), Metadata: map[string]any{"a": "b"}})
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, &companies.Company{ID: "acme-1", Name: "Acme"})
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, "acme-1")
		require.NoError(t, err)
		require.Nil(t, found.Phone)
		require.Empty(t, found.Metadata)
	})

	t.Run("handle is unique", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Upsert(ctx, &companies.Company{ID: "acme-1", Name: "Acme", Handle: utils.Ptr("acme")})
		require.NoError(t, err)

		_, err = repo.Upsert(ctx, &companies.Company{ID: "acme-2", Name: "Other Acme", Handle: utils.Ptr("acme")})
		require.ErrorIs(t, err, apperrors.ErrHandleTaken)

		_, err = repo.Upsert(ctx, &companies.Company{ID: "acme-1", Name: "Acme", Handle: utils.Ptr("acme")})
		require.NoError(t, err)

		_, err = repo.Upsert(ctx, &companies.Company{ID: "acme-2", Name: "No handle"})
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, &companies.Company{ID: "acme-3", Name: "No handle either"})
		require.NoError(t, err)
	})

	t.Run("rejects invalid company", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Upsert(ctx, &companies.Company{Name: "No ID"})
		require.ErrorIs(t, err, apperrors.ErrInvalidCompany)
	})

	t.Run("delete and list", func(t *testing.T) {
		repo := newRepo(t)
		for i := 3; i >= 1; i-- {
			_, err := repo.Upsert(ctx, &companies.Company{ID: fmt.Sprintf("c-%d", i), Name: "Company"})
			require.NoError(t, err)
		}

		list, err := repo.List(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "c-2", list[0].ID)
		require.Equal(t, "c-3", list[1].ID)

		list, err = repo.List(ctx, 0, 1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "c-1", list[0].ID)

		require.NoError(t, repo.Delete(ctx, "c-2"))
		found, err := repo.FindByID(ctx, "c-2")
		require.NoError(t, err)
		require.Nil(t, found)

		list, err = repo.List(ctx, 5, 10)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("concurrent upserts converge", func(t *testing.T) {
		repo := newRepo(t)
		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.Upsert(ctx, &companies.Company{ID: "acme-1", Name: "Acme", AccessToken: utils.Ptr(fmt.Sprintf("tok-%d", i))})
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		list, err := repo.List(ctx, 0, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.NotNil(t, list[0].AccessToken)
	})
}
