package model

// Webflow field slugs for the bills collection. The pipeline writes partial
// patches keyed by these slugs.
const (
	FieldName         = "name"
	FieldHouseNumber  = "house-number"
	FieldSenateNumber = "senate-number"
	FieldStatus       = "bill-status"
	FieldHouseLink    = "house-link"
	FieldSenateLink   = "senate-link"
	FieldTimeline     = "bill-timeline"
	FieldSponsors       = "bill-sponsors"
	FieldSlug           = "slug"
	FieldJurisdiction   = "jurisdiction"
	FieldYear           = "year"
	FieldManualOverride = "manual-override"
)

// Jurisdiction values carried on a CMS record.
const (
	JurisdictionState   = "MN"
	JurisdictionFederal = "US"
)

// CmsBillRecord is one item in the Webflow bills collection, read once per
// run. The pipeline only ever writes back a partial field patch.
type CmsBillRecord struct {
	ItemID         string
	Name           string
	HouseNumber    string
	SenateNumber   string
	Jurisdiction   string
	Year           string
	ManualOverride bool
	IsDraft        bool
	IsArchived     bool

	// Derived display fields the pipeline may overwrite.
	Status     string
	HouseLink  string
	SenateLink string
	Timeline   string
	Sponsors   string
	Slug       string
}
