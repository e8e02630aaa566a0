package service

import (
	"context"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/smallbiznis/biztime/internal/clock"
	companydomain "github.com/smallbiznis/biztime/internal/company/domain"
	companyrepo "github.com/smallbiznis/biztime/internal/company/repository"
	"github.com/smallbiznis/biztime/internal/invoice/domain"
	"github.com/smallbiznis/biztime/internal/invoice/repository"
	"github.com/smallbiznis/biztime/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	return newTestServiceWithClock(t, clock.NewFakeClock(fixedNow))
}

func newTestServiceWithClock(t *testing.T, clk clock.Clock) (domain.Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		Clock:       clk,
		Repo:        repository.Provide(),
		CompanyRepo: companyrepo.Provide(),
	})
	return svc, conn
}

func seedCompany(t *testing.T, conn *gorm.DB, code, name string) {
	t.Helper()
	require.NoError(t, companyrepo.Provide().Insert(context.Background(), conn, &companydomain.Company{
		Code:        code,
		Name:        name,
		Description: name + " inc",
	}))
}

func dateString(d datatypes.Date) string {
	return time.Time(d).Format("2006-01-02")
}

func TestParseID(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "1", want: 1},
		{in: " 42 ", want: 42},
		{in: "0", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.5", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseID(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCreateDefaults(t *testing.T) {
	svc, conn := newTestService(t)
	seedCompany(t, conn, "apple", "Apple")

	invoice, err := svc.Create(context.Background(), domain.CreateInvoiceRequest{CompCode: "apple", Amt: 100})
	require.NoError(t, err)
	assert.Positive(t, invoice.ID)
	assert.Equal(t, "apple", invoice.CompCode)
	assert.Equal(t, 100.0, invoice.Amt)
	assert.False(t, invoice.Paid)
	assert.Nil(t, invoice.PaidDate)
	assert.Equal(t, "2024-03-15", dateString(invoice.AddDate))

	stored, err := repository.Provide().FindByID(context.Background(), conn, invoice.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "2024-03-15", dateString(stored.AddDate))
	assert.Nil(t, stored.PaidDate)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: " ", Amt: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)

	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: "apple", Amt: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: "apple", Amt: -5})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestValidAmount(t *testing.T) {
	cases := []struct {
		amt  float64
		want bool
	}{
		{amt: 0.01, want: true},
		{amt: 100, want: true},
		{amt: 100.55, want: true},
		{amt: 19.99, want: true},
		{amt: 9999999999.99, want: true},
		{amt: 0, want: false},
		{amt: -1, want: false},
		{amt: 100.555, want: false},
		{amt: 0.001, want: false},
		{amt: 1e10, want: false},
		{amt: 1e13, want: false},
		{amt: math.Inf(1), want: false},
		{amt: math.NaN(), want: false},
	}
	for _, tc := range cases {
		t.Run(strconv.FormatFloat(tc.amt, 'g', -1, 64), func(t *testing.T) {
			assert.Equal(t, tc.want, ValidAmount(tc.amt))
		})
	}
}

func TestCreateRejectsUnstorableAmounts(t *testing.T) {
	svc, conn := newTestService(t)
	seedCompany(t, conn, "apple", "Apple")
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: "apple", Amt: 100.555})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: "apple", Amt: 1e13})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	var count int64
	require.NoError(t, conn.Model(&domain.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)

	created, err := svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: "apple", Amt: 100.55})
	require.NoError(t, err)
	assert.Equal(t, 100.55, created.Amt)

	_, err = svc.Update(ctx, domain.UpdateInvoiceRequest{ID: strconv.FormatInt(created.ID, 10), Amt: 100.555})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Update(ctx, domain.UpdateInvoiceRequest{ID: strconv.FormatInt(created.ID, 10), Amt: 1e13})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestCreateStampsCurrentDay(t *testing.T) {
	clk := clock.NewFakeClock(fixedNow)
	svc, conn := newTestServiceWithClock(t, clk)
	seedCompany(t, conn, "apple", "Apple")
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: "apple", Amt: 10})
	require.NoError(t, err)

	clk.Advance(48 * time.Hour)
	second, err := svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: "apple", Amt: 20})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-15", dateString(first.AddDate))
	assert.Equal(t, "2024-03-17", dateString(second.AddDate))
}

func TestCreateUnknownCompany(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateInvoiceRequest{CompCode: "ghost", Amt: 10})
	assert.ErrorIs(t, err, domain.ErrUnknownCompany)
}

func TestGetEmbedsCompany(t *testing.T) {
	svc, conn := newTestService(t)
	seedCompany(t, conn, "apple", "Apple")
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: "apple", Amt: 250.5})
	require.NoError(t, err)

	detail, err := svc.Get(ctx, strconv.FormatInt(created.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, created.ID, detail.ID)
	assert.Equal(t, 250.5, detail.Amt)
	assert.Equal(t, companydomain.Company{Code: "apple", Name: "Apple", Description: "Apple inc"}, detail.Company)

	_, err = svc.Get(ctx, "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestListOrdersByID(t *testing.T) {
	svc, conn := newTestService(t)
	seedCompany(t, conn, "apple", "Apple")
	seedCompany(t, conn, "ibm", "IBM")
	ctx := context.Background()

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: "ibm", Amt: 1})
	require.NoError(t, err)
	second, err := svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: "apple", Amt: 2})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.InvoiceSummary{
		{ID: first.ID, CompCode: "ibm"},
		{ID: second.ID, CompCode: "apple"},
	}, list)
}

func TestUpdateChangesOnlyAmount(t *testing.T) {
	svc, conn := newTestService(t)
	seedCompany(t, conn, "apple", "Apple")
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: "apple", Amt: 100})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(
		`UPDATE invoices SET paid = ?, paid_date = ? WHERE id = ?`,
		true, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), created.ID,
	).Error)

	updated, err := svc.Update(ctx, domain.UpdateInvoiceRequest{ID: strconv.FormatInt(created.ID, 10), Amt: 300})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 300.0, updated.Amt)
	assert.Equal(t, "apple", updated.CompCode)
	assert.True(t, updated.Paid)
	require.NotNil(t, updated.PaidDate)
	assert.Equal(t, "2024-03-20", dateString(*updated.PaidDate))
	assert.Equal(t, "2024-03-15", dateString(updated.AddDate))
}

func TestUpdateErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, domain.UpdateInvoiceRequest{ID: "77", Amt: 10})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(ctx, domain.UpdateInvoiceRequest{ID: "x", Amt: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Update(ctx, domain.UpdateInvoiceRequest{ID: "1", Amt: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDelete(t *testing.T) {
	svc, conn := newTestService(t)
	seedCompany(t, conn, "apple", "Apple")
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateInvoiceRequest{CompCode: "apple", Amt: 100})
	require.NoError(t, err)
	id := strconv.FormatInt(created.ID, 10)

	require.NoError(t, svc.Delete(ctx, id))
	assert.ErrorIs(t, svc.Delete(ctx, id), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "0"), domain.ErrInvalidID)
}

func TestToday(t *testing.T) {
	got := today(time.Date(2024, 3, 15, 23, 59, 59, 0, time.FixedZone("x", -5*3600)))
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), got)
}
