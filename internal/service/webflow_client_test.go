package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mkowalski/billsync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWebflowClient(t *testing.T, handler http.Handler) *WebflowClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewWebflowClient("test-token")
	c.baseURL = srv.URL
	c.delay = 0
	c.publishDelay = 0
	c.backoff = time.Millisecond
	return c
}

func TestListItemsPaginates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/coll-1/items", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		offset := r.URL.Query().Get("offset")
		if offset == "0" {
			fmt.Fprint(w, `{
				"items": [
					{"id": "item-1", "isDraft": true, "fieldData": {
						"name": "HF 1099", "house-number": "HF 1099", "jurisdiction": "MN",
						"year": "2024", "manual-override": false}},
					{"id": "item-2", "fieldData": {"name": "Done Bill", "manual-override": true}}
				],
				"pagination": {"limit": 2, "offset": 0, "total": 3}
			}`)
			return
		}
		fmt.Fprint(w, `{
			"items": [{"id": "item-3", "fieldData": {"name": "Third"}}],
			"pagination": {"limit": 2, "offset": 2, "total": 3}
		}`)
	})

	c := testWebflowClient(t, mux)
	records, err := c.ListItems(context.Background(), "coll-1")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "item-1", records[0].ItemID)
	assert.True(t, records[0].IsDraft)
	assert.Equal(t, "HF 1099", records[0].HouseNumber)
	assert.Equal(t, "MN", records[0].Jurisdiction)
	assert.Equal(t, "2024", records[0].Year)
	assert.False(t, records[0].ManualOverride)
	assert.True(t, records[1].ManualOverride)
	assert.Equal(t, "item-3", records[2].ItemID)
}

func TestFetchStatusOptions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/coll-1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"fields": [
				{"slug": "name", "type": "PlainText"},
				{"slug": "bill-status", "type": "Option", "validations": {"options": [
					{"id": "opt-1", "name": "Active"},
					{"id": "opt-2", "name": "Tabled"},
					{"id": "opt-3", "name": "Failed"},
					{"id": "opt-4", "name": "Passed"}
				]}}
			]
		}`)
	})

	c := testWebflowClient(t, mux)
	options, err := c.FetchStatusOptions(context.Background(), "coll-1")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"active": "opt-1",
		"tabled": "opt-2",
		"failed": "opt-3",
		"passed": "opt-4",
	}, options)
}

func TestFetchStatusOptionsMissingField(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/coll-1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"fields": [{"slug": "name", "type": "PlainText"}]}`)
	})

	c := testWebflowClient(t, mux)
	_, err := c.FetchStatusOptions(context.Background(), "coll-1")
	assert.Error(t, err)
}

func TestPatchItemFields(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/coll-1/items/item-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{}`)
	})

	c := testWebflowClient(t, mux)
	err := c.PatchItemFields(context.Background(), "coll-1", "item-1", map[string]any{
		model.FieldName:   "An Act",
		model.FieldStatus: "opt-2",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"fieldData": map[string]any{"name": "An Act", "bill-status": "opt-2"},
	}, gotBody)
}

func TestPublishItems(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/coll-1/items/publish", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{}`)
	})

	c := testWebflowClient(t, mux)
	err := c.PublishItems(context.Background(), "coll-1", []string{"item-1", "item-2"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"itemIds": []any{"item-1", "item-2"}}, gotBody)
}

func TestPatchSurfacesAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/coll-1/items/item-1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message": "Validation failure"}`)
	})

	c := testWebflowClient(t, mux)
	err := c.PatchItemFields(context.Background(), "coll-1", "item-1", map[string]any{"name": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validation failure")
}
