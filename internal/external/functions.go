package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Edge function names
const (
	FunctionGenerateEmail     = "generate-email"
	FunctionAnalyzeReceipt    = "analyze-receipt"
	FunctionFinancialInsights = "financial-insights"
	FunctionSendReminderEmail = "send-reminder-email"
)

// ErrFunctionsDisabled is returned when no functions base URL is configured
var ErrFunctionsDisabled = errors.New("edge functions are not configured")

type FunctionsConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// FunctionsClient вызывает serverless-функции хостинга по HTTPS
type FunctionsClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// GenerateEmailRequest - данные события для генерации письма
type GenerateEmailRequest struct {
	EventTitle       string `json:"eventTitle"`
	EventDate        string `json:"eventDate"`
	EventLocation    string `json:"eventLocation"`
	EventDescription string `json:"eventDescription,omitempty"`
	RecipientName    string `json:"recipientName,omitempty"`
}

type GenerateEmailResponse struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

type AnalyzeReceiptRequest struct {
	Text string `json:"text"`
}

type AnalyzeReceiptResponse struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
}

type FinancialInsightsRequest struct {
	EventTitle    string           `json:"eventTitle"`
	TicketsSold   int              `json:"ticketsSold"`
	RevenueCents  int64            `json:"revenueCents"`
	ExpensesCents int64            `json:"expensesCents"`
	ByCategory    map[string]int64 `json:"byCategory"`
}

type FinancialInsightsResponse struct {
	Summary  string   `json:"summary"`
	Insights []string `json:"insights"`
}

type SendReminderEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

func NewFunctionsClient(cfg FunctionsConfig) *FunctionsClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &FunctionsClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Enabled reports whether the client has a base URL to call
func (fc *FunctionsClient) Enabled() bool {
	return fc != nil && fc.baseURL != ""
}

// Invoke posts req as JSON to /functions/v1/<name> and decodes the JSON reply into resp.
// resp may be nil when the reply body is not needed.
func (fc *FunctionsClient) Invoke(ctx context.Context, name string, req, resp any) error {
	if !fc.Enabled() {
		return ErrFunctionsDisabled
	}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fc.baseURL+"/functions/v1/"+name, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if fc.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+fc.apiKey)
		httpReq.Header.Set("apikey", fc.apiKey)
	}

	httpResp, err := fc.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", name, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", name, httpResp.StatusCode, strings.TrimSpace(string(body)))
	}

	if resp == nil {
		return nil
	}
	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", name, err)
	}

	return nil
}

func (fc *FunctionsClient) GenerateEmail(ctx context.Context, req GenerateEmailRequest) (*GenerateEmailResponse, error) {
	var result GenerateEmailResponse
	if err := fc.Invoke(ctx, FunctionGenerateEmail, req, &result); err != nil {
		return nil, err
	}
	if result.Subject == "" || result.Content == "" {
		return nil, fmt.Errorf("%s returned an empty email", FunctionGenerateEmail)
	}
	return &result, nil
}

func (fc *FunctionsClient) AnalyzeReceipt(ctx context.Context, req AnalyzeReceiptRequest) (*AnalyzeReceiptResponse, error) {
	var result AnalyzeReceiptResponse
	if err := fc.Invoke(ctx, FunctionAnalyzeReceipt, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (fc *FunctionsClient) FinancialInsights(ctx context.Context, req FinancialInsightsRequest) (*FinancialInsightsResponse, error) {
	var result FinancialInsightsResponse
	if err := fc.Invoke(ctx, FunctionFinancialInsights, req, &result); err != nil {
		return nil, err
	}
	if result.Summary == "" && len(result.Insights) == 0 {
		return nil, fmt.Errorf("%s returned no insights", FunctionFinancialInsights)
	}
	return &result, nil
}

func (fc *FunctionsClient) SendReminderEmail(ctx context.Context, req SendReminderEmailRequest) error {
	return fc.Invoke(ctx, FunctionSendReminderEmail, req, nil)
}
