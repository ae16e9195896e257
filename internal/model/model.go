package model

import (
	"fmt"
	"time"
)

// SectionKind tags a section with its scoring weight. Scoring is driven by
// the kind, never by the section's display name.
type SectionKind string

const (
	// KindWeight1 marks sections whose questions are worth 1 point each.
	KindWeight1 SectionKind = "weight-1"
	// KindWeight2 marks sections whose questions are worth 2 points each.
	KindWeight2 SectionKind = "weight-2"
)

// Weight returns the points awarded per correct answer in a section of this
// kind, or 0 for kinds the scoring engine does not recognize.
func (k SectionKind) Weight() int {
	switch k {
	case KindWeight1:
		return 1
	case KindWeight2:
		return 2
	default:
		return 0
	}
}

// KindForLegacyName maps the historical section labels to kinds, for exam
// fixtures created before the kind tag existed.
func KindForLegacyName(name string) SectionKind {
	switch name {
	case "Section A":
		return KindWeight1
	case "Section B":
		return KindWeight2
	default:
		return ""
	}
}

// Choice is one selectable option of a question.
type Choice struct {
	Option string `json:"option"` // "A".."D"
	Text   string `json:"text"`
}

// Question is a single multiple-choice question.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Choices []Choice `json:"choices"`
	Answer  string   `json:"answer"` // option tag of the correct choice
}

// ChoiceText returns the display text of the choice with the given option
// tag, and whether such a choice exists.
func (q Question) ChoiceText(option string) (string, bool) {
	for _, c := range q.Choices {
		if c.Option == option {
			return c.Text, true
		}
	}
	return "", false
}

// Section is an ordered group of questions sharing one scoring weight.
type Section struct {
	Name      string      `json:"name"`
	Kind      SectionKind `json:"kind,omitempty"`
	Questions []Question  `json:"questions"`
}

// Exam is one complete exam definition, identified by SetID.
type Exam struct {
	SetID    int       `json:"setId"`
	Title    string    `json:"title"`
	Duration int       `json:"duration"` // minutes
	Sections []Section `json:"sections"`
}

// Normalize fills in section kinds derived from legacy names when the kind
// tag is absent. Fixtures that predate the tag stay loadable.
func (e *Exam) Normalize() {
	for i := range e.Sections {
		if e.Sections[i].Kind == "" {
			e.Sections[i].Kind = KindForLegacyName(e.Sections[i].Name)
		}
	}
}

// Validate checks the exam definition invariants: a positive set id, and
// every question's answer matching one of its own choices' option tags.
func (e Exam) Validate() error {
	if e.SetID < 1 {
		return fmt.Errorf("exam %q: setId must be a positive integer", e.Title)
	}
	for _, s := range e.Sections {
		for _, q := range s.Questions {
			if _, ok := q.ChoiceText(q.Answer); !ok {
				return fmt.Errorf("exam %d, section %q, question %d: answer %q matches none of its choices",
					e.SetID, s.Name, q.ID, q.Answer)
			}
		}
	}
	return nil
}

// QuestionsByKind returns the questions of every section with the given
// kind, in exam order.
func (e Exam) QuestionsByKind(k SectionKind) []Question {
	var out []Question
	for _, s := range e.Sections {
		if s.Kind == k {
			out = append(out, s.Questions...)
		}
	}
	return out
}

// AnswerEntry is one submitted answer. A nil SelectedOption means the
// question was left unanswered.
type AnswerEntry struct {
	QuestionID     int     `json:"questionId"`
	SelectedOption *string `json:"selectedOption"`
}

// Answered reports whether the learner selected an option for this entry.
func (a AnswerEntry) Answered() bool {
	return a.SelectedOption != nil
}

// Submission is a validated, normalized exam submission. It is the input to
// scoring and is never persisted as-is.
type Submission struct {
	SetID    int           `json:"setId"`
	Answers  []AnswerEntry `json:"answers"`
	TimeUsed float64       `json:"timeUsed"`
}

// Result is one graded submission. Immutable once written: created exactly
// once, read many times.
type Result struct {
	ID          string        `json:"resultId"`
	SetID       int           `json:"setId"`
	Answers     []AnswerEntry `json:"answers"`
	Score       int           `json:"score"`
	TimeUsed    float64       `json:"timeUsed"`
	StudentID   string        `json:"studentId"`
	SubmittedAt time.Time     `json:"submittedAt"`
}
