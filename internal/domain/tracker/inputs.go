package tracker

import "time"

// ApplicationInput carries the caller-supplied profile for a new application.
type ApplicationInput struct {
	JobTitle             string         `json:"job_title"`
	Company              string         `json:"company"`
	Location             string         `json:"location"`
	JobLink              string         `json:"job_link"`
	JobDescription       string         `json:"job_description"`
	CurrentStatus        string         `json:"current_status"`
	Notes                string         `json:"notes"`
	ResumeFeedback       string         `json:"resume_feedback"`
	CoverLetterGenerated string         `json:"cover_letter_generated"`
	InterviewPrep        *InterviewPrep `json:"interview_prep"`
	SuccessScore         *float64       `json:"success_score"`
	ImprovementTips      []string       `json:"improvement_tips"`
}

// ApplicationPatch is a field-level update. Nil fields are left untouched.
// History, creation time and status have no field here and cannot be patched.
type ApplicationPatch struct {
	JobTitle             *string        `json:"job_title"`
	Company              *string        `json:"company"`
	Location             *string        `json:"location"`
	JobLink              *string        `json:"job_link"`
	JobDescription       *string        `json:"job_description"`
	Notes                *string        `json:"notes"`
	ResumeFeedback       *string        `json:"resume_feedback"`
	CoverLetterGenerated *string        `json:"cover_letter_generated"`
	InterviewPrep        *InterviewPrep `json:"interview_prep"`
	SuccessScore         *float64       `json:"success_score"`
	ImprovementTips      *[]string      `json:"improvement_tips"`
	AppliedAt            *time.Time     `json:"applied_at"`
}

func (p ApplicationPatch) Empty() bool {
	return p == ApplicationPatch{}
}

type CommunicationInput struct {
	Mode          string `json:"mode"`
	Summary       string `json:"summary"`
	ContactPerson string `json:"contact_person"`
}

type ReminderInput struct {
	Type    string     `json:"type"`
	DueDate *time.Time `json:"due_date"`
	Note    string     `json:"note"`
}
