package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mkowalski/billsync/internal/model"
)

const (
	webflowBaseURL        = "https://api.webflow.com/v2"
	webflowTimeout        = 30 * time.Second
	webflowMaxRetries     = 3
	webflowInitialBackoff = 2 * time.Second
	webflowRequestDelay   = 1 * time.Second
	webflowPublishDelay   = 2 * time.Second
	webflowPageSize       = 100
)

// WebflowClient handles communication with the Webflow CMS API.
type WebflowClient struct {
	client       *http.Client
	token        string
	baseURL      string
	delay        time.Duration
	publishDelay time.Duration
	backoff      time.Duration
}

// NewWebflowClient creates a new Webflow API client.
func NewWebflowClient(token string) *WebflowClient {
	return &WebflowClient{
		client: &http.Client{
			Timeout: webflowTimeout,
		},
		token:        token,
		baseURL:      webflowBaseURL,
		delay:        webflowRequestDelay,
		publishDelay: webflowPublishDelay,
		backoff:      webflowInitialBackoff,
	}
}

// listItemsResponse represents the API response for listing collection items
type listItemsResponse struct {
	Items []struct {
		ID         string         `json:"id"`
		IsDraft    bool           `json:"isDraft"`
		IsArchived bool           `json:"isArchived"`
		FieldData  map[string]any `json:"fieldData"`
	} `json:"items"`
	Pagination struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
		Total  int `json:"total"`
	} `json:"pagination"`
}

// collectionResponse represents the API response for a collection's schema
type collectionResponse struct {
	Fields []struct {
		Slug        string `json:"slug"`
		Type        string `json:"type"`
		Validations struct {
			Options []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"options"`
		} `json:"validations"`
	} `json:"fields"`
}

// ListItems retrieves every item in a collection, following offset
// pagination until the reported total is reached.
func (c *WebflowClient) ListItems(ctx context.Context, collectionID string) ([]model.CmsBillRecord, error) {
	var records []model.CmsBillRecord

	for offset := 0; ; {
		url := fmt.Sprintf("%s/collections/%s/items?offset=%d&limit=%d", c.baseURL, collectionID, offset, webflowPageSize)

		body, err := c.doWithRetry(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list items: %w", err)
		}

		var resp listItemsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse items response: %w", err)
		}

		for _, item := range resp.Items {
			records = append(records, convertItemJSON(item.ID, item.IsDraft, item.IsArchived, item.FieldData))
		}

		offset += len(resp.Items)
		if len(resp.Items) == 0 || offset >= resp.Pagination.Total {
			return records, nil
		}
	}
}

// FetchStatusOptions reads the collection schema and returns the option IDs
// of the bill-status field keyed by lowercased option name.
func (c *WebflowClient) FetchStatusOptions(ctx context.Context, collectionID string) (map[string]string, error) {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, collectionID)

	body, err := c.doWithRetry(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collection schema: %w", err)
	}

	var resp collectionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse collection schema: %w", err)
	}

	options := make(map[string]string)
	for _, f := range resp.Fields {
		if f.Slug != model.FieldStatus {
			continue
		}
		for _, opt := range f.Validations.Options {
			options[strings.ToLower(opt.Name)] = opt.ID
		}
	}

	if len(options) == 0 {
		return nil, fmt.Errorf("collection has no %s options", model.FieldStatus)
	}
	return options, nil
}

// PatchItemFields applies a partial field update to one item. The item stays
// in its current draft/live state; publishing is a separate step.
func (c *WebflowClient) PatchItemFields(ctx context.Context, collectionID, itemID string, fields map[string]any) error {
	url := fmt.Sprintf("%s/collections/%s/items/%s", c.baseURL, collectionID, itemID)

	payload, err := json.Marshal(map[string]any{"fieldData": fields})
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	if _, err := c.doWithRetry(ctx, http.MethodPatch, url, payload); err != nil {
		return fmt.Errorf("failed to patch item %s: %w", itemID, err)
	}
	return nil
}

// PatchItemSlug updates just the slug field of one item.
func (c *WebflowClient) PatchItemSlug(ctx context.Context, collectionID, itemID, slug string) error {
	return c.PatchItemFields(ctx, collectionID, itemID, map[string]any{model.FieldSlug: slug})
}

// PublishItems publishes a batch of items from draft to live.
func (c *WebflowClient) PublishItems(ctx context.Context, collectionID string, itemIDs []string) error {
	url := fmt.Sprintf("%s/collections/%s/items/publish", c.baseURL, collectionID)

	payload, err := json.Marshal(map[string]any{"itemIds": itemIDs})
	if err != nil {
		return fmt.Errorf("failed to encode publish request: %w", err)
	}

	if _, err := c.doWithRetry(ctx, http.MethodPost, url, payload); err != nil {
		return fmt.Errorf("failed to publish %d items: %w", len(itemIDs), err)
	}
	return nil
}

// convertItemJSON maps a Webflow item's fieldData onto the record model.
func convertItemJSON(id string, isDraft, isArchived bool, data map[string]any) model.CmsBillRecord {
	return model.CmsBillRecord{
		ItemID:         id,
		IsDraft:        isDraft,
		IsArchived:     isArchived,
		Name:           fieldString(data, model.FieldName),
		HouseNumber:    fieldString(data, model.FieldHouseNumber),
		SenateNumber:   fieldString(data, model.FieldSenateNumber),
		Jurisdiction:   fieldString(data, model.FieldJurisdiction),
		Year:           fieldString(data, model.FieldYear),
		ManualOverride: fieldBool(data, model.FieldManualOverride),
		Status:         fieldString(data, model.FieldStatus),
		HouseLink:      fieldString(data, model.FieldHouseLink),
		SenateLink:     fieldString(data, model.FieldSenateLink),
		Timeline:       fieldString(data, model.FieldTimeline),
		Sponsors:       fieldString(data, model.FieldSponsors),
		Slug:           fieldString(data, model.FieldSlug),
	}
}

func fieldString(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func fieldBool(data map[string]any, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

// doWithRetry performs an HTTP request with exponential backoff retry
func (c *WebflowClient) doWithRetry(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt < webflowMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			lastErr = fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
			continue
		}

		return respBody, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", webflowMaxRetries, lastErr)
}

// Delay returns the configured delay between item requests
func (c *WebflowClient) Delay() time.Duration {
	return c.delay
}

// PublishDelay returns the configured delay between publish batches
func (c *WebflowClient) PublishDelay() time.Duration {
	return c.publishDelay
}
