package service

import (
	"context"
	"strings"
	"testing"
	"time"

	apperrors "eventro/internal/errors"
	"eventro/internal/external"
	"eventro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFinanceFixture(functions Functions, store ObjectStore) (*FinanceService, *fakeBills, *fixture) {
	f := newFixture()
	bills := &fakeBills{}
	svc := NewFinanceService(bills, f.tickets, f.events, f.profiles, NewAIService(functions), store, f.clock)
	return svc, bills, f
}

func TestFinanceService_CreateBill(t *testing.T) {
	ctx := context.Background()
	svc, bills, _ := newFinanceFixture(&fakeFunctions{}, nil)

	bill, err := svc.CreateBill(ctx, organizerID, 1, &models.CreateBillRequest{Description: " Stage rental ", AmountCents: 30000})
	require.NoError(t, err)
	assert.Equal(t, "Stage rental", bill.Description)
	assert.Equal(t, "other", bill.Category)
	assert.Equal(t, testNow, bill.BillDate)
	assert.Equal(t, organizerID, bill.CreatedBy)

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	bill, err = svc.CreateBill(ctx, organizerID, 1, &models.CreateBillRequest{Description: "Coffee", Category: "Catering", AmountCents: 1500, BillDate: date})
	require.NoError(t, err)
	assert.Equal(t, "catering", bill.Category)
	assert.Equal(t, date, bill.BillDate)

	_, err = svc.CreateBill(ctx, organizerID, 1, &models.CreateBillRequest{Description: "Free", AmountCents: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateBill(ctx, strangerID, 1, &models.CreateBillRequest{Description: "Sneaky", AmountCents: 100})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Len(t, bills.bills, 2)
}

func TestFinanceService_Summary(t *testing.T) {
	ctx := context.Background()
	svc, _, f := newFinanceFixture(&fakeFunctions{}, nil)

	_, err := f.ticketService().Purchase(ctx, strangerID, 1)
	require.NoError(t, err)

	_, err = svc.CreateBill(ctx, organizerID, 1, &models.CreateBillRequest{Description: "Hall", Category: "venue", AmountCents: 7000})
	require.NoError(t, err)
	_, err = svc.CreateBill(ctx, organizerID, 1, &models.CreateBillRequest{Description: "Snacks", Category: "catering", AmountCents: 1000})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, organizerID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TicketsSold)
	assert.Equal(t, int64(10000), summary.RevenueCents)
	assert.Equal(t, int64(8000), summary.ExpensesCents)
	assert.Equal(t, int64(2000), summary.ProfitCents)
	assert.Len(t, summary.ByCategory, 2)

	insights, err := svc.Insights(ctx, organizerID, 1)
	require.NoError(t, err)
	assert.True(t, insights.Fallback)
	assert.Contains(t, insights.Insights, "The event is profitable with a 20.0% margin.")
}

func TestFinanceService_Insights_UsesFunction(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFinanceFixture(&fakeFunctions{insights: &external.FinancialInsightsResponse{
		Summary:  "Healthy",
		Insights: []string{"Raise prices"},
	}}, nil)

	insights, err := svc.Insights(ctx, organizerID, 1)
	require.NoError(t, err)
	assert.False(t, insights.Fallback)
	assert.Equal(t, "Healthy", insights.Summary)
	assert.Equal(t, int64(1), insights.EventID)
}

func TestFinanceService_DeleteBill(t *testing.T) {
	ctx := context.Background()
	svc, bills, _ := newFinanceFixture(&fakeFunctions{}, nil)

	bill, err := svc.CreateBill(ctx, organizerID, 1, &models.CreateBillRequest{Description: "Hall", AmountCents: 7000})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteBill(ctx, organizerID, 2, bill.ID), apperrors.ErrNotFound, "bill belongs to another event")
	assert.ErrorIs(t, svc.DeleteBill(ctx, organizerID, 1, "nope"), apperrors.ErrNotFound)
	require.NoError(t, svc.DeleteBill(ctx, organizerID, 1, bill.ID))
	assert.Empty(t, bills.bills)
}

func TestFinanceService_UploadReceipt(t *testing.T) {
	ctx := context.Background()
	file := Upload{Filename: "Receipt.PDF", ContentType: "application/pdf", Size: 4, Reader: strings.NewReader("%PDF")}

	svc, _, _ := newFinanceFixture(&fakeFunctions{}, nil)
	_, err := svc.UploadReceipt(ctx, organizerID, 1, "2a1b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c05", file)
	assert.ErrorIs(t, err, apperrors.ErrStorageDisabled)

	store := &fakeObjectStore{}
	svc, _, _ = newFinanceFixture(&fakeFunctions{}, store)
	bill, err := svc.CreateBill(ctx, organizerID, 1, &models.CreateBillRequest{Description: "Hall", AmountCents: 7000})
	require.NoError(t, err)

	updated, err := svc.UploadReceipt(ctx, organizerID, 1, bill.ID, file)
	require.NoError(t, err)
	require.NotNil(t, updated.ReceiptURL)
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "receipts/1/"))
	assert.True(t, strings.HasSuffix(store.keys[0], ".pdf"))
}

func TestFinanceService_AnalyzeReceipt(t *testing.T) {
	svc, _, _ := newFinanceFixture(&fakeFunctions{}, nil)

	_, err := svc.AnalyzeReceipt(context.Background(), " ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	got, err := svc.AnalyzeReceipt(context.Background(), "Sound equipment hire 300.00")
	require.NoError(t, err)
	assert.Equal(t, "equipment", got.Category)
	assert.Equal(t, int64(30000), got.AmountCents)
}
