package service

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"eventro/internal/external"
	"eventro/internal/logger"
	"eventro/internal/metrics"
	"eventro/internal/models"
)

// AIService wraps the edge functions. Every method answers even when the
// function is unreachable, using a deterministic local result instead.
type AIService struct {
	functions Functions
}

func NewAIService(functions Functions) *AIService {
	return &AIService{functions: functions}
}

// GenerateEventReminderEmail returns a reminder email for the event
func (s *AIService) GenerateEventReminderEmail(ctx context.Context, event *models.Event, recipientName string) models.GeneratedEmail {
	req := external.GenerateEmailRequest{
		EventTitle:    event.Title,
		EventDate:     formatEventDate(event),
		EventLocation: event.Location,
		RecipientName: recipientName,
	}
	if event.Description != nil {
		req.EventDescription = *event.Description
	}

	resp, err := s.functions.GenerateEmail(ctx, req)
	if err == nil {
		return models.GeneratedEmail{Subject: resp.Subject, Content: resp.Content}
	}

	s.fallback(ctx, external.FunctionGenerateEmail, err)
	return FallbackReminderEmail(event, recipientName)
}

// FallbackReminderEmail builds the reminder email locally
func FallbackReminderEmail(event *models.Event, recipientName string) models.GeneratedEmail {
	greeting := "Hello"
	if name := strings.TrimSpace(recipientName); name != "" {
		greeting = "Hello " + html.EscapeString(name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(event.Title))
	fmt.Fprintf(&b, "<p>%s,</p>", greeting)
	fmt.Fprintf(&b, "<p>This is a reminder that <strong>%s</strong> takes place on %s at %s.</p>",
		html.EscapeString(event.Title), html.EscapeString(formatEventDate(event)), html.EscapeString(event.Location))
	if event.Description != nil && strings.TrimSpace(*event.Description) != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(*event.Description))
	}
	b.WriteString("<p>Please bring your ticket QR code for check-in. See you there!</p>")

	return models.GeneratedEmail{
		Subject:  "Reminder: " + event.Title + " is coming up",
		Content:  b.String(),
		Fallback: true,
	}
}

func (s *AIService) AnalyzeReceipt(ctx context.Context, text string) models.ReceiptAnalysis {
	resp, err := s.functions.AnalyzeReceipt(ctx, external.AnalyzeReceiptRequest{Text: text})
	if err == nil && resp.Amount > 0 {
		category := normalizeCategory(resp.Category)
		if category == "" {
			category = guessCategory(text)
		}
		return models.ReceiptAnalysis{
			Description: strings.TrimSpace(resp.Description),
			Category:    category,
			AmountCents: int64(resp.Amount*100 + 0.5),
		}
	}
	if err == nil {
		err = fmt.Errorf("no amount in response")
	}

	s.fallback(ctx, external.FunctionAnalyzeReceipt, err)
	return FallbackReceiptAnalysis(text)
}

// FallbackReceiptAnalysis guesses the category from keywords and takes the largest amount in the text
func FallbackReceiptAnalysis(text string) models.ReceiptAnalysis {
	return models.ReceiptAnalysis{
		Description: firstLine(text, 100),
		Category:    guessCategory(text),
		AmountCents: largestAmountCents(text),
		Fallback:    true,
	}
}

func (s *AIService) FinancialInsights(ctx context.Context, event *models.Event, summary *models.FinanceSummary) models.FinancialInsights {
	byCategory := make(map[string]int64, len(summary.ByCategory))
	for _, ct := range summary.ByCategory {
		byCategory[ct.Category] = ct.AmountCents
	}

	resp, err := s.functions.FinancialInsights(ctx, external.FinancialInsightsRequest{
		EventTitle:    event.Title,
		TicketsSold:   summary.TicketsSold,
		RevenueCents:  summary.RevenueCents,
		ExpensesCents: summary.ExpensesCents,
		ByCategory:    byCategory,
	})
	if err == nil {
		return models.FinancialInsights{EventID: event.ID, Summary: resp.Summary, Insights: resp.Insights}
	}

	s.fallback(ctx, external.FunctionFinancialInsights, err)
	return FallbackFinancialInsights(event, summary)
}

// FallbackFinancialInsights derives plain-text insights from the summary numbers
func FallbackFinancialInsights(event *models.Event, summary *models.FinanceSummary) models.FinancialInsights {
	insights := []string{}

	if summary.TicketsSold == 0 {
		insights = append(insights, "No tickets sold yet; consider promoting the event.")
	}
	switch {
	case summary.ExpensesCents == 0:
		insights = append(insights, "No expenses recorded yet.")
	case summary.ProfitCents < 0:
		insights = append(insights, fmt.Sprintf("Expenses exceed revenue by %s.", formatCents(-summary.ProfitCents)))
	case summary.RevenueCents > 0:
		margin := float64(summary.ProfitCents) / float64(summary.RevenueCents) * 100
		insights = append(insights, fmt.Sprintf("The event is profitable with a %.1f%% margin.", margin))
	}
	if len(summary.ByCategory) > 0 {
		top := summary.ByCategory[0]
		for _, ct := range summary.ByCategory[1:] {
			if ct.AmountCents > top.AmountCents {
				top = ct
			}
		}
		insights = append(insights, fmt.Sprintf("Largest expense category: %s (%s).", top.Category, formatCents(top.AmountCents)))
	}

	return models.FinancialInsights{
		EventID: event.ID,
		Summary: fmt.Sprintf("%s: revenue %s, expenses %s, profit %s.", event.Title,
			formatCents(summary.RevenueCents), formatCents(summary.ExpensesCents), formatCents(summary.ProfitCents)),
		Insights: insights,
		Fallback: true,
	}
}

func (s *AIService) fallback(ctx context.Context, function string, err error) {
	metrics.AIFallbacks.WithLabelValues(function).Inc()
	logger.WithContext(ctx).Warn("Edge function failed, using fallback", "function", function, "error", err)
}

func formatEventDate(event *models.Event) string {
	return event.StartAt.UTC().Format("Monday, January 2, 2006 at 15:04 MST")
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"venue", []string{"venue", "hall", "rent", "room", "space"}},
	{"catering", []string{"catering", "food", "restaurant", "coffee", "lunch", "dinner", "drinks", "pizza", "snacks"}},
	{"marketing", []string{"marketing", "ads", "advert", "print", "flyer", "promo", "banner"}},
	{"equipment", []string{"equipment", "audio", "sound", "projector", "stage", "lighting", "microphone"}},
	{"travel", []string{"taxi", "uber", "flight", "hotel", "train", "fuel", "parking"}},
	{"staff", []string{"staff", "salary", "security", "wage", "volunteer"}},
}

func guessCategory(text string) string {
	lower := strings.ToLower(text)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(lower, w) {
				return ck.category
			}
		}
	}
	return "other"
}

var amountPattern = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.(\d{1,2}))?`)

// largestAmountCents prefers amounts written with cents; plain integers count only when none are
func largestAmountCents(text string) int64 {
	var withCents, plain []int64
	for _, m := range amountPattern.FindAllStringSubmatch(text, -1) {
		whole := m[0]
		frac := m[1]
		intPart := strings.ReplaceAll(strings.SplitN(whole, ".", 2)[0], ",", "")
		units, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			continue
		}
		cents := units * 100
		if frac != "" {
			f, _ := strconv.ParseInt(frac, 10, 64)
			if len(frac) == 1 {
				f *= 10
			}
			withCents = append(withCents, cents+f)
			continue
		}
		plain = append(plain, cents)
	}

	candidates := withCents
	if len(candidates) == 0 {
		candidates = plain
	}
	if len(candidates) == 0 {
		return 0
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] > candidates[j] })
	return candidates[0]
}

func firstLine(text string, max int) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > max {
			line = line[:max]
		}
		return line
	}
	return "Receipt"
}
