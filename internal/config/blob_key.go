package config

// Blob store keys. The portal persists whole collections as single JSON
// documents under named keys, flushed as a unit on every mutation.
const (
	BlobKeyQuestions        = "questions"
	BlobKeyResults          = "results"
	BlobKeyTimerPerQuestion = "timer_per_question"
)

// AllowedTimerValues are the selectable seconds-per-question settings.
// The effective countdown is always questionCount × value (total exam time).
var AllowedTimerValues = []int{30, 60, 120, 300}

// DefaultTimerPerQuestion is used when no setting has been persisted yet.
const DefaultTimerPerQuestion = 60

// IsAllowedTimerValue reports whether v is a selectable timer setting.
func IsAllowedTimerValue(v int) bool {
	for _, allowed := range AllowedTimerValues {
		if v == allowed {
			return true
		}
	}
	return false
}
