package pipeline

import (
	"sort"
	"strings"

	"github.com/mkowalski/billsync/internal/model"
)

// SelectDocumentLink picks the single best downloadable document URL for a
// bill: the most recent PDF version if one exists, otherwise the most recent
// version of any type, otherwise the bill's own state link or URL. Returns
// "" when nothing is available; a missing link is an absence, not an error.
func SelectDocumentLink(bill *model.SourceBill) string {
	if len(bill.Texts) > 0 {
		versions := make([]model.DocVersion, len(bill.Texts))
		copy(versions, bill.Texts)

		// Stable sort keeps received order on equal dates, so the first
		// occurrence wins a tie. Unparseable dates sort as oldest.
		sort.SliceStable(versions, func(i, j int) bool {
			return versionDate(versions[i]) > versionDate(versions[j])
		})

		for _, v := range versions {
			if isPDF(v) {
				if url := versionURL(v); url != "" {
					return url
				}
			}
		}
		if url := versionURL(versions[0]); url != "" {
			return url
		}
	}

	if bill.StateLink != "" {
		return bill.StateLink
	}
	return bill.URL
}

// versionDate returns a sortable date key; YYYY-MM-DD strings compare
// correctly lexically and "" naturally sorts oldest.
func versionDate(v model.DocVersion) string {
	return v.Date
}

func isPDF(v model.DocVersion) bool {
	if strings.Contains(strings.ToLower(v.TypeHint), "pdf") {
		return true
	}
	url := strings.ToLower(versionURL(v))
	return strings.Contains(url, ".pdf") || strings.Contains(url, "format=pdf")
}

func versionURL(v model.DocVersion) string {
	if v.StateURL != "" {
		return v.StateURL
	}
	return v.URL
}
