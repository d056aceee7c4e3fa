package constant

type SubmissionStatus string

const (
	SubmissionStatusNew        SubmissionStatus = "new"
	SubmissionStatusInProgress SubmissionStatus = "in_progress"
	SubmissionStatusResolved   SubmissionStatus = "resolved"
	SubmissionStatusCancelled  SubmissionStatus = "cancelled"
)

// IsValid reports whether s is one of the four known statuses.
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionStatusNew, SubmissionStatusInProgress, SubmissionStatusResolved, SubmissionStatusCancelled:
		return true
	}
	return false
}

// ServiceTypes is the closed set of categories a visitor can pick on the contact form.
var ServiceTypes = []string{
	"General Inquiry",
	"Roof Inspection",
	"Roof Repair",
	"Roof Replacement",
	"Storm Damage",
	"Gutter Services",
	"Commercial Roofing",
}

func IsValidServiceType(v string) bool {
	for _, st := range ServiceTypes {
		if st == v {
			return true
		}
	}
	return false
}

// ContactAcknowledgment is returned for every accepted submission, whether or not
// it was stored and forwarded.
const ContactAcknowledgment = "Thank you for reaching out! We have received your message and will get back to you shortly."
