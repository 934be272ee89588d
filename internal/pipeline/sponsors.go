package pipeline

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/mkowalski/billsync/internal/model"
)

// Sponsor ranks. Primary authors list first, joint authors second, every
// other sponsor type (co-authors included) is excluded from display.
const (
	rankPrimary  = 1
	rankJoint    = 2
	rankExcluded = 0
)

// Minnesota district codes: house districts carry a letter suffix ("32B"),
// senate districts are purely numeric ("14").
var (
	houseDistrictPattern  = regexp.MustCompile(`\d+[A-Za-z]$`)
	senateDistrictPattern = regexp.MustCompile(`^\D*\d+$`)
)

// RenderSponsors filters, ranks, deduplicates, and formats a sponsor list
// into display lines of the form "Rep. Jane Doe (DFL)", one per line. An
// empty or fully-excluded list renders as "".
func RenderSponsors(sponsors []model.Sponsor) string {
	type ranked struct {
		model.Sponsor
		rank int
	}

	var kept []ranked
	for _, s := range sponsors {
		r := sponsorRank(s)
		if r == rankExcluded {
			continue
		}
		kept = append(kept, ranked{Sponsor: s, rank: r})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].rank != kept[j].rank {
			return kept[i].rank < kept[j].rank
		}
		return kept[i].Name < kept[j].Name
	})

	seen := map[string]bool{}
	var lines []string
	for _, s := range kept {
		key := fmt.Sprintf("%s|%d|%s|%s", s.Name, s.SponsorTypeID, s.Party, s.District)
		if seen[key] {
			continue
		}
		seen[key] = true
		lines = append(lines, renderSponsorLine(s.Sponsor))
	}

	return strings.Join(lines, "<br>")
}

func sponsorRank(s model.Sponsor) int {
	switch s.SponsorTypeID {
	case model.SponsorTypePrimary:
		return rankPrimary
	case model.SponsorTypeJoint:
		return rankJoint
	default:
		return rankExcluded
	}
}

func renderSponsorLine(s model.Sponsor) string {
	line := s.Name
	if prefix := sponsorPrefix(s); prefix != "" {
		line = prefix + " " + line
	}
	if s.Party != "" {
		line = fmt.Sprintf("%s (%s)", line, s.Party)
	}
	return html.EscapeString(line)
}

// sponsorPrefix resolves the chamber prefix from the richest field first:
// the numeric role ID, then role text, then the committee/chamber hint, then
// the shape of the district code. Unresolvable sponsors get no prefix.
func sponsorPrefix(s model.Sponsor) string {
	switch s.RoleID {
	case model.RoleRepresentative:
		return "Rep."
	case model.RoleSenator:
		return "Sen."
	}

	for _, hint := range []string{s.RoleText, s.CommitteeText} {
		lower := strings.ToLower(hint)
		switch {
		case strings.HasPrefix(lower, "rep") || strings.Contains(lower, "house"):
			return "Rep."
		case strings.HasPrefix(lower, "sen"):
			return "Sen."
		}
	}

	if s.District != "" {
		if houseDistrictPattern.MatchString(s.District) {
			return "Rep."
		}
		if senateDistrictPattern.MatchString(s.District) {
			return "Sen."
		}
	}

	return ""
}
