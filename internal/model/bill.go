package model

// SourceBill represents a single bill snapshot from the LegiScan API.
// It is constructed fresh per run from the getBill response and never cached.
type SourceBill struct {
	BillID         int
	BillNumber     string
	Title          string
	Description    string
	Status         int
	LastAction     string
	LastActionDate string
	URL            string
	StateLink      string
	History        []HistoryEvent
	Texts          []DocVersion
	Sponsors       []Sponsor
}

// HistoryEvent is one entry in a bill's chronological action log.
type HistoryEvent struct {
	Date    string // YYYY-MM-DD
	Action  string
	Chamber string
}

// DocVersion is one document-version record attached to a bill.
type DocVersion struct {
	Date     string // YYYY-MM-DD, may be empty
	TypeHint string // MIME type or free-text format hint
	URL      string
	StateURL string
}

// LegiScan sponsor_type_id values.
const (
	SponsorTypePrimary = 1
	SponsorTypeCo      = 2
	SponsorTypeJoint   = 3
)

// LegiScan role_id values.
const (
	RoleRepresentative = 1
	RoleSenator        = 2
)

// Sponsor is one sponsor record attached to a bill.
type Sponsor struct {
	Name          string
	Party         string
	SponsorTypeID int
	RoleID        int
	RoleText      string // "Rep"/"Sen" style role text, when present
	CommitteeText string // chamber/committee hint, lowest-priority prefix source
	District      string // e.g. "HD 32B" or "SD 14"
}
