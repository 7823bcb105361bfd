package params

import "time"

const (
	ServerBodyLimit    = 1048576
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second

	CSRFTokenExpiration = 1 * time.Hour

	SessionKeyPrefix   = "session:"
	FormStateKeyPrefix = "signup:"

	// SubmissionGrace is added to the submit delay before a pending
	// submission is treated as lost.
	SubmissionGrace = 30 * time.Second
)
