package scheduler

import "fmt"

// JobKind enumerates the kinds of work a schedule can trigger
type JobKind int

const (
	// JobKindDailyCheck checks tracked members against today's challenge
	JobKindDailyCheck JobKind = iota + 1
)

func (k JobKind) String() string {
	switch k {
	case JobKindDailyCheck:
		return "daily_check"
	default:
		return fmt.Sprintf("job_kind(%d)", int(k))
	}
}
