package entity

import (
	"time"
)

// LeadSource is the channel a lead came through.
type LeadSource string

const (
	SourceWebinar  LeadSource = "webinar"
	SourceWhatsApp LeadSource = "whatsapp"
	SourcePhone    LeadSource = "phone"
	SourceLinktree LeadSource = "linktree"
	SourceWebsite  LeadSource = "website"
)

// LeadSources lists every accepted source in display order.
var LeadSources = []LeadSource{SourceWebinar, SourceWhatsApp, SourcePhone, SourceLinktree, SourceWebsite}

func (s LeadSource) Valid() bool {
	for _, v := range LeadSources {
		if s == v {
			return true
		}
	}
	return false
}

// LeadStatus tracks a lead through the sales pipeline.
type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusQualified LeadStatus = "qualified"
	StatusConverted LeadStatus = "converted"
	StatusClosed    LeadStatus = "closed"
)

var LeadStatuses = []LeadStatus{StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusClosed}

func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Lead struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        *string    `json:"name"`
	Phone       *string    `json:"phone"`
	Message     *string    `json:"message"`
	Source      LeadSource `json:"source"`
	Status      LeadStatus `json:"status"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ContactedAt *time.Time `json:"contactedAt"`
}

// NewLead is the public capture payload after validation.
type NewLead struct {
	Email   string
	Name    *string
	Phone   *string
	Message *string
	Source  LeadSource
}

// LeadUpdate holds the admin-editable fields. Unset fields are left untouched;
// a set field with a nil Value clears the stored value.
type LeadUpdate struct {
	Status      *LeadStatus
	Notes       Optional[string]
	ContactedAt Optional[time.Time]
}

// Apply merges u onto l in place. It does not touch UpdatedAt.
func (u LeadUpdate) Apply(l *Lead) {
	if u.Status != nil {
		l.Status = *u.Status
	}
	if u.Notes.Set {
		l.Notes = u.Notes.Value
	}
	if u.ContactedAt.Set {
		l.ContactedAt = u.ContactedAt.Value
	}
}

// LeadStats is the aggregate shown on the dashboard cards.
type LeadStats struct {
	Total    int                `json:"total"`
	ByStatus map[LeadStatus]int `json:"byStatus"`
	BySource map[LeadSource]int `json:"bySource"`
}

// CountLeads aggregates leads into a LeadStats with every enum key present.
func CountLeads(leads []Lead) LeadStats {
	st := LeadStats{
		Total:    len(leads),
		ByStatus: make(map[LeadStatus]int, len(LeadStatuses)),
		BySource: make(map[LeadSource]int, len(LeadSources)),
	}
	for _, s := range LeadStatuses {
		st.ByStatus[s] = 0
	}
	for _, s := range LeadSources {
		st.BySource[s] = 0
	}
	for _, l := range leads {
		st.ByStatus[l.Status]++
		st.BySource[l.Source]++
	}
	return st
}
