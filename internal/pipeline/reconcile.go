package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mkowalski/billsync/internal/model"
)

// Skip reasons reported back in the run summary.
const (
	SkipManualOverride = "manual override set"
	SkipNoIdentifiers  = "no bill numbers"
	SkipNoChanges      = "no changes"
)

var bareCodePattern = regexp.MustCompile(`(?i)^[HS]F[-\s]?\d+$`)

// Reconciler derives the partial CMS patch for one record from its source
// bill snapshots. Pure: all network fetching happens in the service layer.
type Reconciler struct {
	Classifier StatusClassifier

	// StatusOptions maps a status label to the collection's internal option
	// ID. A label with no entry falls back to the label text itself.
	StatusOptions map[model.StatusLabel]string
}

// Outcome is the result of reconciling one record.
type Outcome struct {
	Skip       bool
	SkipReason string

	// Fields is the partial patch to apply, keyed by field slug. Identifier
	// corrections are folded in. Empty map plus empty slug means nothing to
	// write.
	Fields map[string]any

	// Slug is the derived URL slug, "" when it should not be touched. Slugs
	// are patched separately from ordinary fields.
	Slug string

	// Identifiers holds the normalized house/senate codes the record should
	// be looked up under.
	Identifiers IdentifierResult
}

// Reconcile combines the normalizer, classifier, and renderers into the
// final update decision for one CMS record. houseBill and senateBill may be
// nil when the corresponding lookup failed or no identifier exists; a field
// is only written when its computed value meaningfully differs from what the
// record already holds.
func (r Reconciler) Reconcile(rec model.CmsBillRecord, houseBill, senateBill *model.SourceBill) Outcome {
	if rec.ManualOverride {
		return Outcome{Skip: true, SkipReason: SkipManualOverride}
	}

	ids := NormalizeIdentifiers(rec.HouseNumber, rec.SenateNumber)
	if ids.House == "" && ids.Senate == "" {
		return Outcome{Skip: true, SkipReason: SkipNoIdentifiers, Identifiers: ids}
	}

	fields := map[string]any{}
	for field, value := range ids.Corrections {
		fields[field] = value
	}

	// A corrected-away identifier clears the stale chamber link.
	if v, ok := ids.Corrections[model.FieldHouseNumber]; ok && v == "" {
		fields[model.FieldHouseLink] = ""
	}
	if v, ok := ids.Corrections[model.FieldSenateNumber]; ok && v == "" {
		fields[model.FieldSenateLink] = ""
	}

	primary := houseBill
	if primary == nil {
		primary = senateBill
	}

	title := strings.TrimSpace(rec.Name)
	if primary != nil {
		if isPlaceholderName(rec.Name, primary.BillNumber) && primary.Title != "" {
			fields[model.FieldName] = primary.Title
			title = primary.Title
		}

		label := r.Classifier.Classify(primary, rec.Jurisdiction, rec.Year)
		setIfChanged(fields, model.FieldStatus, r.statusValue(label), rec.Status)
		setIfChanged(fields, model.FieldTimeline, RenderTimeline(primary), rec.Timeline)
		setIfChanged(fields, model.FieldSponsors, RenderSponsors(primary.Sponsors), rec.Sponsors)
	}

	if houseBill != nil {
		setIfChanged(fields, model.FieldHouseLink, SelectDocumentLink(houseBill), rec.HouseLink)
	}
	if senateBill != nil {
		setIfChanged(fields, model.FieldSenateLink, SelectDocumentLink(senateBill), rec.SenateLink)
	}

	slug := r.buildSlug(rec, ids, title)
	if slug == rec.Slug {
		slug = ""
	}

	if len(fields) == 0 && slug == "" {
		return Outcome{Skip: true, SkipReason: SkipNoChanges, Identifiers: ids}
	}

	return Outcome{Fields: fields, Slug: slug, Identifiers: ids}
}

// buildSlug derives "<year>--<ids>--<title-slug>", but only when both a
// legislative year and a real title are known.
func (r Reconciler) buildSlug(rec model.CmsBillRecord, ids IdentifierResult, title string) string {
	if rec.Year == "" || title == "" || isPlaceholderName(title, "") {
		return ""
	}

	var codes []string
	for _, code := range []string{ids.House, ids.Senate} {
		if code != "" {
			codes = append(codes, strings.ToLower(code))
		}
	}

	// The double-hyphen separators are part of the slug format, so the parts
	// are slugified individually rather than the whole string.
	slug := fmt.Sprintf("%s--%s--%s", Slugify(rec.Year), strings.Join(codes, "-"), Slugify(title))
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	return slug
}

func (r Reconciler) statusValue(label model.StatusLabel) string {
	if id, ok := r.StatusOptions[label]; ok && id != "" {
		return id
	}
	return string(label)
}

// setIfChanged writes a field only when the computed value is non-empty and
// differs from what the record already holds.
func setIfChanged(fields map[string]any, key, value, current string) {
	if value == "" || value == current {
		return
	}
	fields[key] = value
}

// isPlaceholderName reports whether a display name carries no real
// information: blank, the bare bill number, or a known filler word.
func isPlaceholderName(name, billNumber string) bool {
	t := strings.TrimSpace(name)
	if t == "" {
		return true
	}
	if billNumber != "" && strings.EqualFold(t, billNumber) {
		return true
	}
	if bareCodePattern.MatchString(t) {
		return true
	}
	switch strings.ToLower(t) {
	case "untitled", "tbd", "placeholder":
		return true
	}
	return false
}
