package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"eventro/internal/clock"
	apperrors "eventro/internal/errors"
	"eventro/internal/models"
	"eventro/internal/storage"

	"github.com/google/uuid"
)

type FinanceService struct {
	guard   organizerGuard
	bills   BillStore
	tickets TicketStore
	ai      *AIService
	store   ObjectStore
	clock   clock.Clock
}

func NewFinanceService(bills BillStore, tickets TicketStore, events EventStore, profiles ProfileStore, ai *AIService, store ObjectStore, clk clock.Clock) *FinanceService {
	return &FinanceService{
		guard:   organizerGuard{events: events, profiles: profiles},
		bills:   bills,
		tickets: tickets,
		ai:      ai,
		store:   store,
		clock:   clk,
	}
}

func (s *FinanceService) CreateBill(ctx context.Context, actorID string, eventID int64, req *models.CreateBillRequest) (*models.Bill, error) {
	if _, _, err := s.guard.require(ctx, actorID, eventID); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" || req.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: description and a positive amount are required", apperrors.ErrInvalidInput)
	}

	bill := &models.Bill{
		EventID:     eventID,
		CreatedBy:   actorID,
		Description: description,
		Category:    normalizeCategory(req.Category),
		AmountCents: req.AmountCents,
		BillDate:    req.BillDate,
	}
	if bill.Category == "" {
		bill.Category = "other"
	}
	if bill.BillDate.IsZero() {
		bill.BillDate = s.clock.Now()
	}

	if err := s.bills.Create(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}
	return bill, nil
}

func (s *FinanceService) ListBills(ctx context.Context, actorID string, eventID int64) ([]models.Bill, error) {
	if _, _, err := s.guard.require(ctx, actorID, eventID); err != nil {
		return nil, err
	}

	bills, err := s.bills.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

func (s *FinanceService) DeleteBill(ctx context.Context, actorID string, eventID int64, billID string) error {
	if _, _, err := s.guard.require(ctx, actorID, eventID); err != nil {
		return err
	}
	if _, err := uuid.Parse(billID); err != nil {
		return apperrors.ErrNotFound
	}

	ok, err := s.bills.Delete(ctx, billID, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if !ok {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *FinanceService) UploadReceipt(ctx context.Context, actorID string, eventID int64, billID string, file Upload) (*models.Bill, error) {
	if _, _, err := s.guard.require(ctx, actorID, eventID); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, apperrors.ErrStorageDisabled
	}
	if _, err := uuid.Parse(billID); err != nil {
		return nil, apperrors.ErrNotFound
	}

	bill, err := s.bills.GetByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if bill == nil || bill.EventID != eventID {
		return nil, apperrors.ErrNotFound
	}

	key := storage.ObjectKey("receipts", strconv.FormatInt(eventID, 10), file.Filename)
	url, err := s.store.Upload(ctx, key, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload receipt: %w", err)
	}
	if err := s.bills.UpdateReceiptURL(ctx, billID, url); err != nil {
		return nil, fmt.Errorf("failed to save receipt url: %w", err)
	}

	bill.ReceiptURL = &url
	return bill, nil
}

// Summary computes revenue from tickets sold at the event price against recorded bills
func (s *FinanceService) Summary(ctx context.Context, actorID string, eventID int64) (*models.FinanceSummary, error) {
	event, _, err := s.guard.require(ctx, actorID, eventID)
	if err != nil {
		return nil, err
	}
	return s.summary(ctx, event)
}

func (s *FinanceService) summary(ctx context.Context, event *models.Event) (*models.FinanceSummary, error) {
	sold, err := s.tickets.CountByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	totals, err := s.bills.TotalsByCategory(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to total bills: %w", err)
	}

	var expenses int64
	for _, ct := range totals {
		expenses += ct.AmountCents
	}
	revenue := int64(sold) * event.PriceCents

	return &models.FinanceSummary{
		EventID:       event.ID,
		TicketsSold:   sold,
		RevenueCents:  revenue,
		ExpensesCents: expenses,
		ProfitCents:   revenue - expenses,
		ByCategory:    totals,
	}, nil
}

func (s *FinanceService) Insights(ctx context.Context, actorID string, eventID int64) (*models.FinancialInsights, error) {
	event, _, err := s.guard.require(ctx, actorID, eventID)
	if err != nil {
		return nil, err
	}

	summary, err := s.summary(ctx, event)
	if err != nil {
		return nil, err
	}

	insights := s.ai.FinancialInsights(ctx, event, summary)
	return &insights, nil
}

func (s *FinanceService) AnalyzeReceipt(ctx context.Context, text string) (*models.ReceiptAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: receipt text is required", apperrors.ErrInvalidInput)
	}
	analysis := s.ai.AnalyzeReceipt(ctx, text)
	return &analysis, nil
}
