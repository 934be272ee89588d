package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mkowalski/billsync/internal/model"
	"github.com/mkowalski/billsync/internal/pipeline"
)

const publishChunkSize = 100

// RunError records one failed unit of work: a single record or a single
// publish chunk.
type RunError struct {
	ItemID     string `json:"item_id,omitempty"`
	BillNumber string `json:"bill_number,omitempty"`
	Message    string `json:"message"`
}

// RunSummary is the result of one sync run.
type RunSummary struct {
	RunID     string     `json:"run_id"`
	Processed int        `json:"processed"`
	Updated   int        `json:"updated"`
	Skipped   int        `json:"skipped"`
	Errored   int        `json:"errored"`
	Published int        `json:"published"`
	Errors    []RunError `json:"errors,omitempty"`
}

func (s *RunSummary) recordError(itemID, billNumber string, err error) {
	s.Errors = append(s.Errors, RunError{ItemID: itemID, BillNumber: billNumber, Message: err.Error()})
}

// SyncOptions tunes one run.
type SyncOptions struct {
	DryRun  bool // compute updates but write nothing
	Publish bool // publish patched items after the loop
	Limit   int  // process at most this many records, 0 = all
}

// Syncer orchestrates one reconciliation run: list the CMS collection, fetch
// source bills per record, reconcile, patch, and finally publish.
type Syncer struct {
	legiscan   *LegiScanClient
	webflow    *WebflowClient
	reconciler pipeline.Reconciler
	logger     *log.Logger
	errLogger  *log.Logger
}

// NewSyncer creates a new Syncer.
func NewSyncer(legiscan *LegiScanClient, webflow *WebflowClient) *Syncer {
	return &Syncer{
		legiscan:  legiscan,
		webflow:   webflow,
		logger:    log.New(os.Stdout, "", log.LstdFlags),
		errLogger: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// Run synchronizes every record in the collection, one at a time, in source
// list order. A failed record never aborts the batch: the error is recorded
// in the summary and the loop moves on.
func (s *Syncer) Run(ctx context.Context, collectionID string, opts SyncOptions) (*RunSummary, error) {
	summary := &RunSummary{RunID: uuid.NewString()}

	s.logger.Printf("Starting sync run %s", summary.RunID)

	s.logger.Println("Fetching bill records from Webflow...")
	records, err := s.webflow.ListItems(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection items: %w", err)
	}
	s.logger.Printf("Found %d records to process", len(records))

	s.reconciler.StatusOptions = s.resolveStatusOptions(ctx, collectionID)

	if opts.Limit > 0 && opts.Limit < len(records) {
		records = records[:opts.Limit]
	}

	var publishQueue []string

	for idx, rec := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		summary.Processed++
		progress := fmt.Sprintf("[%d/%d]", idx+1, len(records))

		if rec.ManualOverride {
			s.logger.Printf("%s Skipping %s (manual override)", progress, rec.ItemID)
			summary.Skipped++
			continue
		}

		ids := pipeline.NormalizeIdentifiers(rec.HouseNumber, rec.SenateNumber)
		if ids.House == "" && ids.Senate == "" {
			s.logger.Printf("%s Skipping %s (no bill numbers)", progress, rec.ItemID)
			summary.Skipped++
			continue
		}

		houseBill, senateBill := s.fetchBills(ctx, rec, ids, summary)
		if houseBill == nil && senateBill == nil {
			summary.Errored++
			continue
		}

		outcome := s.reconciler.Reconcile(rec, houseBill, senateBill)
		if outcome.Skip {
			s.logger.Printf("%s Skipping %s (%s)", progress, rec.ItemID, outcome.SkipReason)
			summary.Skipped++
			continue
		}

		if opts.DryRun {
			s.logger.Printf("%s Would update %s: %d fields", progress, rec.ItemID, len(outcome.Fields))
			summary.Updated++
			continue
		}

		if err := s.applyOutcome(ctx, collectionID, rec, outcome); err != nil {
			s.errLogger.Printf("Failed to update %s: %v", rec.ItemID, err)
			summary.recordError(rec.ItemID, ids.House+" "+ids.Senate, err)
			summary.Errored++
			continue
		}

		s.logger.Printf("%s Updated %s: %d fields", progress, rec.ItemID, len(outcome.Fields))
		summary.Updated++
		publishQueue = append(publishQueue, rec.ItemID)

		// Rate limiting delay between records
		if idx < len(records)-1 {
			time.Sleep(s.webflow.Delay())
		}
	}

	if opts.Publish && !opts.DryRun {
		s.publishAll(ctx, collectionID, publishQueue, summary)
	}

	return summary, nil
}

// fetchBills looks up the house and senate bills for a record, with a
// courtesy delay between the two chamber lookups. A failed lookup is
// recorded but does not stop the other chamber from being used.
func (s *Syncer) fetchBills(ctx context.Context, rec model.CmsBillRecord, ids pipeline.IdentifierResult, summary *RunSummary) (houseBill, senateBill *model.SourceBill) {
	state := rec.Jurisdiction
	if state == "" {
		state = model.JurisdictionState
	}

	var err error
	if ids.House != "" {
		houseBill, err = s.legiscan.GetBillAny(ctx, state, billNumberCandidates(state, ids.House), rec.Year)
		if err != nil {
			s.errLogger.Printf("Failed to fetch %s for %s: %v", ids.House, rec.ItemID, err)
			summary.recordError(rec.ItemID, ids.House, err)
		}
	}

	if ids.House != "" && ids.Senate != "" {
		time.Sleep(s.legiscan.Delay())
	}

	if ids.Senate != "" {
		senateBill, err = s.legiscan.GetBillAny(ctx, state, billNumberCandidates(state, ids.Senate), rec.Year)
		if err != nil {
			s.errLogger.Printf("Failed to fetch %s for %s: %v", ids.Senate, rec.ItemID, err)
			summary.recordError(rec.ItemID, ids.Senate, err)
		}
	}

	return houseBill, senateBill
}

// applyOutcome writes the field patch and, separately, the slug.
func (s *Syncer) applyOutcome(ctx context.Context, collectionID string, rec model.CmsBillRecord, outcome pipeline.Outcome) error {
	if len(outcome.Fields) > 0 {
		if err := s.webflow.PatchItemFields(ctx, collectionID, rec.ItemID, outcome.Fields); err != nil {
			return err
		}
	}

	if outcome.Slug != "" {
		if err := s.webflow.PatchItemSlug(ctx, collectionID, rec.ItemID, outcome.Slug); err != nil {
			return fmt.Errorf("slug update failed: %w", err)
		}
	}

	return nil
}

// publishAll publishes patched items in fixed-size chunks with a longer
// courtesy delay between chunks. A failed chunk is recorded; already-applied
// patches are never rolled back.
func (s *Syncer) publishAll(ctx context.Context, collectionID string, itemIDs []string, summary *RunSummary) {
	if len(itemIDs) == 0 {
		return
	}

	s.logger.Printf("Publishing %d items...", len(itemIDs))

	for start := 0; start < len(itemIDs); start += publishChunkSize {
		end := start + publishChunkSize
		if end > len(itemIDs) {
			end = len(itemIDs)
		}
		chunk := itemIDs[start:end]

		if err := s.webflow.PublishItems(ctx, collectionID, chunk); err != nil {
			s.errLogger.Printf("Failed to publish chunk of %d: %v", len(chunk), err)
			summary.recordError("", "", err)
			continue
		}
		summary.Published += len(chunk)

		if end < len(itemIDs) {
			time.Sleep(s.webflow.PublishDelay())
		}
	}
}

// resolveStatusOptions reads the collection schema to map status labels onto
// Webflow option IDs. Schema failure falls back to the bare label text so
// the run can still proceed.
func (s *Syncer) resolveStatusOptions(ctx context.Context, collectionID string) map[model.StatusLabel]string {
	options, err := s.webflow.FetchStatusOptions(ctx, collectionID)
	if err != nil {
		s.errLogger.Printf("Falling back to label text for status options: %v", err)
		return nil
	}

	resolved := make(map[model.StatusLabel]string, len(model.AllStatusLabels))
	for _, label := range model.AllStatusLabels {
		if id, ok := options[strings.ToLower(string(label))]; ok {
			resolved[label] = id
		}
	}
	return resolved
}

// PrintSummary prints the run statistics.
func (s *Syncer) PrintSummary(summary *RunSummary) {
	s.logger.Println("")
	s.logger.Println("=== Sync Summary ===")
	s.logger.Printf("Run ID:     %s", summary.RunID)
	s.logger.Printf("Processed:  %d", summary.Processed)
	s.logger.Printf("Updated:    %d", summary.Updated)
	s.logger.Printf("Skipped:    %d", summary.Skipped)
	s.logger.Printf("Errored:    %d", summary.Errored)
	s.logger.Printf("Published:  %d", summary.Published)
	for _, e := range summary.Errors {
		s.logger.Printf("  error: item=%s bill=%s: %s", e.ItemID, e.BillNumber, e.Message)
	}
}

// billNumberCandidates returns the lookup formats to try in order. State
// bills resolve directly; federal records sometimes carry state-style
// prefixes, so congress conventions are tried after the literal code.
func billNumberCandidates(state, code string) []string {
	if state != model.JurisdictionFederal {
		return []string{code}
	}

	switch {
	case strings.HasPrefix(code, "HF"):
		return []string{code, "HR" + code[2:], "HB" + code[2:]}
	case strings.HasPrefix(code, "SF"):
		return []string{code, "S" + code[2:], "SB" + code[2:]}
	}
	return []string{code}
}
