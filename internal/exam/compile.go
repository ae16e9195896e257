package exam

import (
	"time"

	"github.com/examdesk/examportal/internal/model"
)

// Display strings used in comparison entries. They are part of the wire
// contract consumed by the review UI.
const (
	noAnswer      = "No Answer"
	invalidOption = "Invalid option"
	notFound      = "Question not found"
	notApplicable = "N/A"
)

// AnswerView annotates one side of a comparison entry (the learner's choice
// or the correct choice) with human-readable text.
type AnswerView struct {
	QuestionText string `json:"questionText"`
	Option       string `json:"option"`
	OptionText   string `json:"optionText"`
	IsCorrect    bool   `json:"isCorrect"`
}

// ComparisonEntry pairs what the learner chose with the correct choice for
// one question.
type ComparisonEntry struct {
	QuestionID    int        `json:"questionId"`
	YourAnswer    AnswerView `json:"yourAnswer"`
	CorrectAnswer AnswerView `json:"correctAnswer"`
}

// SectionStats is the per-kind tally of the compiled comparison.
type SectionStats struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
	Marks   int `json:"marks"`
}

// Detail is the compiled review of one graded submission.
type Detail struct {
	SetID         int               `json:"setId"`
	Score         int               `json:"score"`
	TimeUsed      float64           `json:"timeUsed"`
	SubmittedAt   time.Time         `json:"submittedAt"`
	SectionAStats SectionStats      `json:"sectionAStats"`
	SectionBStats SectionStats      `json:"sectionBStats"`
	Comparison    []ComparisonEntry `json:"comparison"`
}

// Compile reconstructs the full per-question comparison for a stored result:
// every question of the exam appears exactly once, submitted answers first
// (in submission order), then the unanswered remainder in exam question
// order. The score is recomputed from the current exam definition rather
// than trusted from the stored result, so the view always reflects the
// definition as it stands.
func Compile(ex model.Exam, res model.Result) Detail {
	p := poolsOf(ex)

	comparison := make([]ComparisonEntry, 0, len(res.Answers))
	covered := make(map[int]bool, len(res.Answers))
	for _, a := range res.Answers {
		q, _, found := p.find(a.QuestionID)
		comparison = append(comparison, compareEntry(a, q, found))
		covered[a.QuestionID] = true
	}

	// Questions the submission never mentioned become implicit unanswered
	// entries.
	for _, k := range scoredKinds {
		for _, q := range ex.QuestionsByKind(k) {
			if covered[q.ID] {
				continue
			}
			comparison = append(comparison, compareEntry(model.AnswerEntry{QuestionID: q.ID}, q, true))
		}
	}

	d := Detail{
		SetID:       res.SetID,
		Score:       Score(ex, res.Answers),
		TimeUsed:    res.TimeUsed,
		SubmittedAt: res.SubmittedAt,
		Comparison:  comparison,
	}
	d.SectionAStats = tally(p, comparison, model.KindWeight1)
	d.SectionBStats = tally(p, comparison, model.KindWeight2)
	return d
}

func compareEntry(a model.AnswerEntry, q model.Question, found bool) ComparisonEntry {
	answered := a.Answered()
	correct := answered && found && *a.SelectedOption == q.Answer

	your := AnswerView{Option: noAnswer, OptionText: noAnswer, IsCorrect: correct}
	key := AnswerView{Option: notApplicable, OptionText: notApplicable, IsCorrect: true}
	if !found {
		your.QuestionText = notFound
		key.QuestionText = notFound
	} else {
		your.QuestionText = q.Text
		key.QuestionText = q.Text
		key.Option = "Option " + q.Answer
		key.OptionText, _ = q.ChoiceText(q.Answer)
	}
	if answered {
		your.Option = "Option " + *a.SelectedOption
		if found {
			text, ok := q.ChoiceText(*a.SelectedOption)
			if !ok {
				text = invalidOption
			}
			your.OptionText = text
		}
	}

	return ComparisonEntry{QuestionID: a.QuestionID, YourAnswer: your, CorrectAnswer: key}
}

// tally walks the comparison and counts, for one kind's pool, how many of
// its questions were answered correctly and the marks those earn. Applying
// the kind weight here and in points() is the same rule: marks always sum to
// Score for the same answers.
func tally(p pools, comparison []ComparisonEntry, kind model.SectionKind) SectionStats {
	stats := SectionStats{Total: len(p.byKind[kind])}
	for _, entry := range comparison {
		if _, ok := p.byKind[kind][entry.QuestionID]; !ok {
			continue
		}
		if entry.YourAnswer.IsCorrect {
			stats.Correct++
			stats.Marks += kind.Weight()
		}
	}
	return stats
}
