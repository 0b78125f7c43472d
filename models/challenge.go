package models

import "time"

// SubmissionStatusAccepted is the status LeetCode reports for a passing submission
const SubmissionStatusAccepted = "Accepted"

// Problem holds the metadata of a LeetCode problem
type Problem struct {
	Slug           string
	Title          string
	Difficulty     Difficulty
	Topics         []string
	AcceptanceRate string
	URL            string
}

// Submission is one entry of a user's recent submission history
type Submission struct {
	Slug   string
	Status string
	// Timestamp is kept raw; the API has returned seconds, milliseconds and ISO strings
	Timestamp string
}

// IsAcceptedFor returns true if the submission is an accepted solution of slug
func (s Submission) IsAcceptedFor(slug string) bool {
	return s.Slug == slug && s.Status == SubmissionStatusAccepted
}

// MemberCheckStatus classifies a tracked member after a check
type MemberCheckStatus string

const (
	MemberCompleted   MemberCheckStatus = "completed"
	MemberIncomplete  MemberCheckStatus = "incomplete"
	MemberFetchFailed MemberCheckStatus = "fetch_failed"
)

// MemberResult is the outcome of checking one tracked member
type MemberResult struct {
	User        TrackedUser
	Status      MemberCheckStatus
	SubmittedAt string // raw timestamp of the accepted submission, if any
	Err         error
}

// IsCompleted returns true if the member solved today's challenge
func (r MemberResult) IsCompleted() bool {
	return r.Status == MemberCompleted
}

// CheckReport is the full result of checking a guild against today's challenge
type CheckReport struct {
	RunID      string
	GuildID    string
	Day        time.Time
	Problem    *Problem
	Completed  []MemberResult
	Incomplete []MemberResult
	CheckedAt  time.Time
}

// FailedCount returns the number of incomplete members whose fetch failed
func (r *CheckReport) FailedCount() int {
	count := 0
	for _, m := range r.Incomplete {
		if m.Status == MemberFetchFailed {
			count++
		}
	}
	return count
}

// IncompleteUsers returns the tracked users that did not complete the challenge
func (r *CheckReport) IncompleteUsers() []TrackedUser {
	users := make([]TrackedUser, len(r.Incomplete))
	for i, m := range r.Incomplete {
		users[i] = m.User
	}
	return users
}
