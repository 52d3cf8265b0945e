// Package workout holds the submission model and turns raw form fields into it.
package workout

// NumExercises is the fixed number of exercise slots on the form.
const NumExercises = 4

// Catalog is the display name of each slot, in form order.
var Catalog = [NumExercises]string{
	"Incline DB Press (دامبل عالي للصدر)",
	"Tricep Pushdown (تراي بوش داون)",
	"Wide Lat Pull Down (سحب عالي واسع)",
	"T-Bar Row (سحب عالتي بار)",
}

// Submission is one normalized form post. Optional text fields are empty when absent.
type Submission struct {
	ID         string
	Name       string
	Email      string
	Weight     string
	Date       string // YYYY-MM-DD; never empty after Normalize
	Exercises  [NumExercises]Exercise
	Attachment *Attachment
}

// Exercise is one slot. len(Sets) == NumSets.
type Exercise struct {
	Name    string
	Sets    []Set
	Slot    int // 1-based
	NumSets int
}

// Set is one performed set. Empty values mean the client sent nothing.
type Set struct {
	Reps   string
	Weight string
}

// Attachment is the single optional uploaded file.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the attachment length in bytes.
func (a *Attachment) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

// HasSets reports whether any slot has at least one set.
func (s *Submission) HasSets() bool {
	for _, ex := range s.Exercises {
		if ex.NumSets > 0 {
			return true
		}
	}
	return false
}
