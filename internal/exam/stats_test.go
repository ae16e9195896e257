package exam

import (
	"testing"

	"github.com/examdesk/examportal/internal/model"
)

func TestSectionBreakdown(t *testing.T) {
	ex := testExam()

	tests := []struct {
		name          string
		answers       []model.AnswerEntry
		wantCorrect   []int
		wantIncorrect []int
	}{
		{"all correct",
			[]model.AnswerEntry{
				{QuestionID: 1, SelectedOption: opt("B")},
				{QuestionID: 2, SelectedOption: opt("C")},
			},
			[]int{1, 1}, []int{0, 0},
		},
		{"one wrong per section",
			[]model.AnswerEntry{
				{QuestionID: 1, SelectedOption: opt("A")},
				{QuestionID: 2, SelectedOption: opt("B")},
			},
			[]int{0, 0}, []int{1, 1},
		},
		{"null selection counts as incorrect",
			[]model.AnswerEntry{
				{QuestionID: 1},
				{QuestionID: 2, SelectedOption: opt("C")},
			},
			[]int{0, 1}, []int{1, 0},
		},
		{"omitted question not tallied at all",
			[]model.AnswerEntry{
				{QuestionID: 1, SelectedOption: opt("B")},
			},
			[]int{1, 0}, []int{0, 0},
		},
		{"unknown question id not tallied",
			[]model.AnswerEntry{
				{QuestionID: 99, SelectedOption: opt("A")},
			},
			[]int{0, 0}, []int{0, 0},
		},
		{"empty submission", nil, []int{0, 0}, []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := SectionBreakdown(ex, testResult(tt.answers, 0))

			if len(b.Labels) != 2 || b.Labels[0] != "Section A" || b.Labels[1] != "Section B" {
				t.Errorf("Labels = %v", b.Labels)
			}
			if len(b.Datasets) != 2 {
				t.Fatalf("len(Datasets) = %d, want 2", len(b.Datasets))
			}
			if b.Datasets[0].Label != "Correct Answers" || b.Datasets[1].Label != "Incorrect Answers" {
				t.Errorf("dataset labels = %q, %q", b.Datasets[0].Label, b.Datasets[1].Label)
			}
			for i := range tt.wantCorrect {
				if b.Datasets[0].Data[i] != tt.wantCorrect[i] {
					t.Errorf("correct[%d] = %d, want %d", i, b.Datasets[0].Data[i], tt.wantCorrect[i])
				}
				if b.Datasets[1].Data[i] != tt.wantIncorrect[i] {
					t.Errorf("incorrect[%d] = %d, want %d", i, b.Datasets[1].Data[i], tt.wantIncorrect[i])
				}
			}
		})
	}
}

func TestSectionBreakdownLabelsFromSectionNames(t *testing.T) {
	ex := testExam()
	ex.Sections[0].Name = "Foundations"
	ex.Sections[1].Name = "Advanced"

	b := SectionBreakdown(ex, testResult(nil, 0))
	if b.Labels[0] != "Foundations" || b.Labels[1] != "Advanced" {
		t.Errorf("Labels = %v, want section display names", b.Labels)
	}
}
