package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mkowalski/billsync/internal/model"
)

const (
	legiscanBaseURL        = "https://api.legiscan.com"
	legiscanTimeout        = 30 * time.Second
	legiscanMaxRetries     = 3
	legiscanInitialBackoff = 1 * time.Second
	legiscanRequestDelay   = 1 * time.Second
)

// LegiScanClient handles communication with the LegiScan API.
type LegiScanClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
	delay   time.Duration
	backoff time.Duration
}

// NewLegiScanClient creates a new LegiScan API client.
func NewLegiScanClient(apiKey string) *LegiScanClient {
	return &LegiScanClient{
		client: &http.Client{
			Timeout: legiscanTimeout,
		},
		apiKey:  apiKey,
		baseURL: legiscanBaseURL,
		delay:   legiscanRequestDelay,
		backoff: legiscanInitialBackoff,
	}
}

// getBillResponse represents the API envelope for op=getBill
type getBillResponse struct {
	Status string `json:"status"`
	Alert  struct {
		Message string `json:"message"`
	} `json:"alert"`
	Bill *billJSON `json:"bill"`
}

// billJSON represents a bill in the API response
type billJSON struct {
	BillID         int    `json:"bill_id"`
	BillNumber     string `json:"bill_number"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Status         int    `json:"status"`
	LastAction     string `json:"last_action"`
	LastActionDate string `json:"last_action_date"`
	URL            string `json:"url"`
	StateLink      string `json:"state_link"`
	History        []struct {
		Date    string `json:"date"`
		Action  string `json:"action"`
		Chamber string `json:"chamber"`
	} `json:"history"`
	Texts []struct {
		Date      string `json:"date"`
		Type      string `json:"type"`
		Mime      string `json:"mime"`
		URL       string `json:"url"`
		StateLink string `json:"state_link"`
	} `json:"texts"`
	Sponsors []struct {
		Name          string `json:"name"`
		Party         string `json:"party"`
		SponsorTypeID int    `json:"sponsor_type_id"`
		RoleID        int    `json:"role_id"`
		Role          string `json:"role"`
		CommitteeName string `json:"committee_name"`
		District      string `json:"district"`
	} `json:"sponsors"`
}

// GetBill retrieves one bill by state and bill number. Year narrows the
// lookup to a session when known. A non-OK envelope status or a missing
// payload fails the bill.
func (c *LegiScanClient) GetBill(ctx context.Context, state, billNumber, year string) (*model.SourceBill, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("op", "getBill")
	q.Set("state", state)
	q.Set("bill", billNumber)
	if year != "" {
		q.Set("year", year)
	}

	body, err := c.fetchWithRetry(ctx, fmt.Sprintf("%s/?%s", c.baseURL, q.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bill %s: %w", billNumber, err)
	}

	var resp getBillResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse bill response for %s: %w", billNumber, err)
	}

	if resp.Status != "OK" || resp.Bill == nil {
		msg := resp.Alert.Message
		if msg == "" {
			msg = "empty payload"
		}
		return nil, fmt.Errorf("lookup failed for %s: %s", billNumber, msg)
	}

	return convertBillJSON(resp.Bill), nil
}

// GetBillAny tries an ordered list of bill-number formats and returns the
// first successful lookup, with a courtesy delay between attempts.
func (c *LegiScanClient) GetBillAny(ctx context.Context, state string, candidates []string, year string) (*model.SourceBill, error) {
	var lastErr error
	for i, candidate := range candidates {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.Delay()):
			}
		}

		bill, err := c.GetBill(ctx, state, candidate, year)
		if err == nil {
			return bill, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func convertBillJSON(b *billJSON) *model.SourceBill {
	bill := &model.SourceBill{
		BillID:         b.BillID,
		BillNumber:     b.BillNumber,
		Title:          b.Title,
		Description:    b.Description,
		Status:         b.Status,
		LastAction:     b.LastAction,
		LastActionDate: b.LastActionDate,
		URL:            b.URL,
		StateLink:      b.StateLink,
	}

	for _, h := range b.History {
		bill.History = append(bill.History, model.HistoryEvent{
			Date:    h.Date,
			Action:  h.Action,
			Chamber: h.Chamber,
		})
	}

	for _, t := range b.Texts {
		hint := t.Mime
		if hint == "" {
			hint = t.Type
		}
		bill.Texts = append(bill.Texts, model.DocVersion{
			Date:     t.Date,
			TypeHint: hint,
			URL:      t.URL,
			StateURL: t.StateLink,
		})
	}

	for _, s := range b.Sponsors {
		bill.Sponsors = append(bill.Sponsors, model.Sponsor{
			Name:          s.Name,
			Party:         s.Party,
			SponsorTypeID: s.SponsorTypeID,
			RoleID:        s.RoleID,
			RoleText:      s.Role,
			CommitteeText: s.CommitteeName,
			District:      s.District,
		})
	}

	return bill
}

// fetchWithRetry performs an HTTP GET with exponential backoff retry
func (c *LegiScanClient) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt < legiscanMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			continue
		}

		return body, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", legiscanMaxRetries, lastErr)
}

// Delay returns the configured delay between requests
func (c *LegiScanClient) Delay() time.Duration {
	return c.delay
}
