package models

import "time"

// Status enumerates the employment-pipeline states of a candidate.
// The wire values keep the labels the intake platform has always used.
type Status string

const (
	StatusAvailable  Status = "Disponible"
	StatusInternship Status = "Stage"
	StatusEmployed   Status = "Emploi"
)

// Valid reports whether the status is one of the three known variants.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusInternship, StatusEmployed:
		return true
	}
	return false
}

// InternshipDetails is the Internship-only sub-payload.
type InternshipDetails struct {
	Company   string     `json:"stageCompany,omitempty"`
	Title     string     `json:"stageTitle,omitempty"`
	StartDate *time.Time `json:"stageStartDate,omitempty"`
	EndDate   *time.Time `json:"stageEndDate,omitempty"`
	Type      string     `json:"stageType,omitempty"`
}

// EmploymentDetails is the Employed-only sub-payload.
type EmploymentDetails struct {
	Company      string     `json:"jobCompany,omitempty"`
	Title        string     `json:"jobTitle,omitempty"`
	ContractType string     `json:"jobContractType,omitempty"`
	StartDate    *time.Time `json:"jobStartDate,omitempty"`
}

// StatusTracking is the wire representation of the lifecycle sub-record.
// Only the sub-record matching the current status is populated; the server
// purges the others on every transition.
type StatusTracking struct {
	CurrentStatus Status             `json:"currentStatus"`
	Internship    *InternshipDetails `json:"internship,omitempty"`
	Employment    *EmploymentDetails `json:"employment,omitempty"`
	RemainingTime string             `json:"remainingTime,omitempty"`
}

// Candidate is a persisted applicant record. Lifecycle columns are stored
// flat; HydrateTracking rebuilds the nested wire shape after a scan.
type Candidate struct {
	ID        string  `db:"id" json:"id"`
	FullName  string  `db:"full_name" json:"fullName"`
	LinkedIn  string  `db:"linkedin" json:"linkedin,omitempty"`
	Portfolio string  `db:"portfolio" json:"portfolio,omitempty"`
	CenterID  *string `db:"center_id" json:"centerId,omitempty"`
	FiliereID *string `db:"filiere_id" json:"filiereId,omitempty"`

	CVPath    string `db:"cv_path" json:"-"`
	CVName    string `db:"cv_name" json:"cvName,omitempty"`
	CoverPath string `db:"cover_path" json:"-"`
	CoverName string `db:"cover_name" json:"coverName,omitempty"`

	CurrentStatus Status `db:"current_status" json:"-"`

	InternshipCompany   string     `db:"internship_company" json:"-"`
	InternshipTitle     string     `db:"internship_title" json:"-"`
	InternshipStartDate *time.Time `db:"internship_start_date" json:"-"`
	InternshipEndDate   *time.Time `db:"internship_end_date" json:"-"`
	InternshipType      string     `db:"internship_type" json:"-"`

	EmploymentCompany      string     `db:"employment_company" json:"-"`
	EmploymentTitle        string     `db:"employment_title" json:"-"`
	EmploymentContractType string     `db:"employment_contract_type" json:"-"`
	EmploymentStartDate    *time.Time `db:"employment_start_date" json:"-"`

	StatusTracking StatusTracking `db:"-" json:"statusTracking"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// HydrateTracking rebuilds the nested StatusTracking record from the flat
// lifecycle columns. Only the active variant carries a sub-record.
func (c *Candidate) HydrateTracking() {
	tracking := StatusTracking{CurrentStatus: c.CurrentStatus}
	if tracking.CurrentStatus == "" {
		tracking.CurrentStatus = StatusAvailable
	}
	switch tracking.CurrentStatus {
	case StatusInternship:
		tracking.Internship = &InternshipDetails{
			Company:   c.InternshipCompany,
			Title:     c.InternshipTitle,
			StartDate: c.InternshipStartDate,
			EndDate:   c.InternshipEndDate,
			Type:      c.InternshipType,
		}
	case StatusEmployed:
		tracking.Employment = &EmploymentDetails{
			Company:      c.EmploymentCompany,
			Title:        c.EmploymentTitle,
			ContractType: c.EmploymentContractType,
			StartDate:    c.EmploymentStartDate,
		}
	}
	c.StatusTracking = tracking
}

// CandidateDetail joins denormalized display names onto a candidate row.
type CandidateDetail struct {
	Candidate
	CenterName  *string `db:"center_name" json:"centerName,omitempty"`
	FiliereName *string `db:"filiere_name" json:"filiereName,omitempty"`
}

// CandidateFilter narrows candidate queries. Zero values mean no constraint
// on that dimension; supplied criteria combine with AND.
type CandidateFilter struct {
	CenterID  string
	FiliereID string
	Status    Status
}

// CandidateListQuery drives the paginated dashboard listing.
type CandidateListQuery struct {
	Search   string
	Page     int
	PageSize int
}
