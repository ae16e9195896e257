package exam

import (
	"math"

	"github.com/examdesk/examportal/internal/model"
)

var validOptions = map[string]bool{"A": true, "B": true, "C": true, "D": true}

// ValidateSubmission checks a decoded submission payload against the
// structural rules and returns a normalized submission. Rules are checked in
// order and the first failure wins; on failure the returned error is a
// *ValidationError carrying the 1-based index of the offending answer entry
// (when one is at fault) and an echo of that entry.
func ValidateSubmission(raw map[string]any) (model.Submission, error) {
	var sub model.Submission

	setID, ok := asInt(raw["setId"])
	if !ok || setID == 0 {
		return sub, &ValidationError{Reason: "setId is missing or not a number"}
	}

	rawAnswers, ok := raw["answers"].([]any)
	if !ok {
		return sub, &ValidationError{Reason: "answers is not an array"}
	}

	timeUsed, ok := raw["timeUsed"].(float64)
	if !ok {
		return sub, &ValidationError{Reason: "timeUsed is not a number"}
	}

	answers := make([]model.AnswerEntry, 0, len(rawAnswers))
	for i, ra := range rawAnswers {
		entry, _ := ra.(map[string]any)

		qid, ok := asInt(entry["questionId"])
		if !ok {
			return sub, &ValidationError{Index: i + 1, Reason: "questionId is not a number", Entry: ra}
		}

		var selected *string
		if v, present := entry["selectedOption"]; present && v != nil {
			s, ok := v.(string)
			if !ok {
				return sub, &ValidationError{Index: i + 1, Reason: "selectedOption is not a string", Entry: ra}
			}
			if !validOptions[s] {
				return sub, &ValidationError{Index: i + 1, Reason: "selectedOption is not A/B/C/D", Entry: ra}
			}
			selected = &s
		}

		answers = append(answers, model.AnswerEntry{QuestionID: qid, SelectedOption: selected})
	}

	sub.SetID = setID
	sub.Answers = answers
	sub.TimeUsed = timeUsed
	return sub, nil
}

// asInt accepts the float64 that encoding/json produces for numbers and
// rejects everything else, including non-integral values.
func asInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
