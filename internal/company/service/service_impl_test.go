package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/biztime/internal/company/domain"
	"github.com/smallbiznis/biztime/internal/company/repository"
	"github.com/smallbiznis/biztime/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc := New(Params{
		DB:   conn,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return svc, conn
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Tetra One":      "tetra-one",
		"Apple Computer": "apple-computer",
		"  IBM  ":        "ibm",
		"Foo & Bar, Inc": "foo-and-bar-inc",
		"!!!":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestCreateDerivesCodeFromName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	company, err := svc.Create(ctx, domain.CreateCompanyRequest{Name: "Tetra One", Description: "quad"})
	require.NoError(t, err)
	assert.Equal(t, "tetra-one", company.Code)
	assert.Equal(t, "Tetra One", company.Name)
	assert.Equal(t, "quad", company.Description)

	stored, err := svc.Get(ctx, "tetra-one")
	require.NoError(t, err)
	assert.Equal(t, company, stored.Company)
	assert.NotNil(t, stored.Invoices)
	assert.Empty(t, stored.Invoices)
}

func TestCreateUsesSuppliedCode(t *testing.T) {
	svc, _ := newTestService(t)

	company, err := svc.Create(context.Background(), domain.CreateCompanyRequest{Code: "Big Blue", Name: "IBM"})
	require.NoError(t, err)
	assert.Equal(t, "big-blue", company.Code)
	assert.Equal(t, "", company.Description)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCompanyRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateCompanyRequest{Name: "???"})
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestCreateDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCompanyRequest{Name: "Apple Computer"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateCompanyRequest{Name: "apple computer"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = svc.Create(ctx, domain.CreateCompanyRequest{Code: "apple", Name: "Apple Computer"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestListOrdersByCode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := svc.Create(ctx, domain.CreateCompanyRequest{Name: name})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CompanySummary{
		{Code: "alpha", Name: "Alpha"},
		{Code: "mid", Name: "Mid"},
		{Code: "zeta", Name: "Zeta"},
	}, list)
}

func TestGetMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetEmbedsOnlyOwnInvoices(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Apple", "IBM"} {
		_, err := svc.Create(ctx, domain.CreateCompanyRequest{Name: name})
		require.NoError(t, err)
	}
	insertInvoice(t, conn, "apple", 100)
	insertInvoice(t, conn, "ibm", 200)
	insertInvoice(t, conn, "apple", 300)

	detail, err := svc.Get(ctx, "apple")
	require.NoError(t, err)
	require.Len(t, detail.Invoices, 2)
	for _, inv := range detail.Invoices {
		assert.Equal(t, "apple", inv.CompCode)
		assert.False(t, inv.Paid)
		assert.Nil(t, inv.PaidDate)
	}
	assert.Equal(t, 100.0, detail.Invoices[0].Amt)
	assert.Equal(t, 300.0, detail.Invoices[1].Amt)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCompanyRequest{Name: "Apple", Description: "old"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateCompanyRequest{Code: "apple", Name: "Apple Inc", Description: "new"})
	require.NoError(t, err)
	assert.Equal(t, domain.Company{Code: "apple", Name: "Apple Inc", Description: "new"}, updated)

	_, err = svc.Update(ctx, domain.UpdateCompanyRequest{Code: "missing", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(ctx, domain.UpdateCompanyRequest{Code: "apple", Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestDeleteCascadesInvoices(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCompanyRequest{Name: "Apple"})
	require.NoError(t, err)
	insertInvoice(t, conn, "apple", 100)
	insertInvoice(t, conn, "apple", 200)

	require.NoError(t, svc.Delete(ctx, "apple"))

	var remaining int64
	require.NoError(t, conn.Raw(`SELECT COUNT(*) FROM invoices WHERE comp_code = ?`, "apple").Scan(&remaining).Error)
	assert.Zero(t, remaining)

	_, err = svc.Get(ctx, "apple")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "apple"), domain.ErrNotFound)
}

func insertInvoice(t *testing.T, conn *gorm.DB, code string, amt float64) {
	t.Helper()
	require.NoError(t, conn.Exec(
		`INSERT INTO invoices (comp_code, amt, paid, add_date) VALUES (?, ?, ?, ?)`,
		code, amt, false, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	).Error)
}
