// Package types defines the record structures shared across the extraction pipelines.
package types

// StatusLiquidated marks an organization whose cessation date was found in the
// registry result text. Active organizations carry an empty status.
const StatusLiquidated = "liquidated"

// OrganizationRecord is one extracted registry entry for a legal entity.
// Fields that could not be extracted are empty strings and serialize as empty
// CSV cells.
type OrganizationRecord struct {
	SearchQuery string `json:"search_query"`
	EntityName  string `json:"entity_name"`
	FullText    string `json:"full_text"`
	Region      string `json:"region,omitempty"`
	OGRN        string `json:"ogrn,omitempty"`
	INN         string `json:"inn,omitempty"`
	HeadName    string `json:"head_name,omitempty"`
	Status      string `json:"status,omitempty"`
	StopDate    string `json:"stop_date,omitempty"`
	PDFFile     string `json:"pdf_file,omitempty"`
}

// EntrepreneurRecord is one extracted registry entry for an individual
// entrepreneur. The source format is not decomposed further, so only the raw
// text is kept.
type EntrepreneurRecord struct {
	SearchQuery string `json:"search_query"`
	EntityName  string `json:"entity_name"`
	FullText    string `json:"full_text"`
}

// DocumentRecord holds the fields extracted from one excerpt PDF.
// Error is set instead of the field set when text extraction yielded nothing.
type DocumentRecord struct {
	Filename string `json:"filename"`
	FullName string `json:"full_name,omitempty"`
	OGRN     string `json:"ogrn,omitempty"`
	INN      string `json:"inn,omitempty"`
	Address  string `json:"address,omitempty"`
	Location string `json:"location,omitempty"`

	ResponsiblePersonName         string `json:"responsible_person_name,omitempty"`
	ResponsiblePersonINN          string `json:"responsible_person_inn,omitempty"`
	ResponsiblePersonPosition     string `json:"responsible_person_position,omitempty"`
	ResponsiblePersonApprovalDate string `json:"responsible_person_approval_date,omitempty"`

	FounderFullName string `json:"founder_full_name,omitempty"`
	FounderINN      string `json:"founder_inn,omitempty"`
	FounderOGRN     string `json:"founder_ogrn,omitempty"`
	FounderDate     string `json:"founder_date,omitempty"`

	Error string `json:"error,omitempty"`
}

// MissingFields returns the names of the structured fields that stayed empty
// after extraction. Used for diagnostics only, never as a failure signal.
func (r *DocumentRecord) MissingFields() []string {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	check("full_name", r.FullName)
	check("ogrn", r.OGRN)
	check("inn", r.INN)
	check("address", r.Address)
	check("location", r.Location)
	check("responsible_person_name", r.ResponsiblePersonName)
	check("responsible_person_inn", r.ResponsiblePersonINN)
	check("responsible_person_position", r.ResponsiblePersonPosition)
	check("responsible_person_approval_date", r.ResponsiblePersonApprovalDate)
	check("founder_full_name", r.FounderFullName)
	check("founder_inn", r.FounderINN)
	check("founder_ogrn", r.FounderOGRN)
	check("founder_date", r.FounderDate)
	return missing
}
