// Package record defines the enriched document record that the pipeline
// assembles and the cache stores. A record is either fully populated (all
// metadata present and a non-empty summary) or an error record carrying only
// an error string; partially populated records are never returned as success.
package record

// SchemaVersion tags every stored record. The cache gateway treats a stored
// record with a different version as a miss so shape changes never surface
// stale layouts to consumers.
const SchemaVersion = 1

// NoContentSummary is the fixed summary substituted when a document has no
// retrievable text. A bill with no published text is a valid outcome, not an
// error.
const NoContentSummary = "No content available for summarization."

// NoSummaryGenerated is substituted when the summarizer produced no usable
// output for a document that did have text.
const NoSummaryGenerated = "No summary generated."

// Type distinguishes bills from enacted laws.
type Type string

const (
	TypeBill Type = "bill"
	TypeLaw  Type = "law"
)

// Record is the unit of caching, keyed by UID. Stored once per UID and never
// updated in place.
type Record struct {
	SchemaVersion    int     `json:"schema_version"`
	ID               string  `json:"id"`
	JSONType         string  `json:"json_type"`
	Type             Type    `json:"type"`
	Title            string  `json:"title,omitempty"`
	Number           string  `json:"number,omitempty"`
	IntroducedDate   string  `json:"introduced_date,omitempty"`
	OriginChamber    string  `json:"origin_chamber,omitempty"`
	CurrentChamber   string  `json:"current_chamber,omitempty"`
	Session          string  `json:"session,omitempty"`
	PolicyArea       string  `json:"policy_area,omitempty"`
	LatestAction     string  `json:"latest_action,omitempty"`
	LatestActionDate string  `json:"latest_action_date,omitempty"`
	Sponsor          string  `json:"sponsor,omitempty"`
	SponsorState     string  `json:"sponsor_state,omitempty"`
	SponsorParty     string  `json:"sponsor_party,omitempty"`
	SponsorID        string  `json:"sponsor_id,omitempty"`
	LawType          string  `json:"law_type,omitempty"`
	LawNumber        string  `json:"law_number,omitempty"`
	Summary          string  `json:"summary"`
	HTMLink          string  `json:"htm_link,omitempty"`
	PDFLink          string  `json:"pdf_link,omitempty"`
	AudioPath        *string `json:"audio_path"`
	SRTPath          *string `json:"srt_path"`
}

// Metadata holds the upstream document fields a fetcher variant extracts.
// The orchestrator merges it into the final Record.
type Metadata struct {
	Type             Type
	Title            string
	Number           string
	IntroducedDate   string
	OriginChamber    string
	CurrentChamber   string
	Session          string
	PolicyArea       string
	LatestAction     string
	LatestActionDate string
	Sponsor          string
	SponsorState     string
	SponsorParty     string
	SponsorID        string
	LawType          string
	LawNumber        string
}

// ErrorRecord is the failure shape returned at the HTTP boundary.
type ErrorRecord struct {
	Error string `json:"error"`
}
