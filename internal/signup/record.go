package signup

import (
	"encoding/gob"
	"time"

	"github.com/khanghh/signup-form/internal/form"
)

// Record is the persisted sign-up state of one browser session.
type Record struct {
	Form         form.State `json:"form"`
	Notice       string     `json:"notice,omitempty"`
	SubmissionID string     `json:"submissionID,omitempty"`
	SubmittedAt  time.Time  `json:"submittedAt,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func init() {
	gob.Register(Record{})
}

func newRecord() *Record {
	return &Record{Form: form.NewState()}
}
