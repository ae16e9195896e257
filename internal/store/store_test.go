package store

import (
	"errors"
	"testing"
	"time"

	"github.com/examdesk/examportal/internal/exam"
	"github.com/examdesk/examportal/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testExam(setID int) model.Exam {
	return model.Exam{
		SetID:    setID,
		Title:    "Sample Set",
		Duration: 30,
		Sections: []model.Section{
			{
				Name: "Section A",
				Kind: model.KindWeight1,
				Questions: []model.Question{{
					ID:   1,
					Text: "Capital of France?",
					Choices: []model.Choice{
						{Option: "A", Text: "Berlin"},
						{Option: "B", Text: "Paris"},
					},
					Answer: "B",
				}},
			},
			{
				Name: "Section B",
				Kind: model.KindWeight2,
				Questions: []model.Question{{
					ID:   2,
					Text: "2 + 2 * 2?",
					Choices: []model.Choice{
						{Option: "A", Text: "4"},
						{Option: "C", Text: "6"},
					},
					Answer: "C",
				}},
			},
		},
	}
}

func TestExamCatalog(t *testing.T) {
	s := newTestStore(t)

	ids, err := s.ListSetIDs()
	if err != nil {
		t.Fatalf("ListSetIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty catalog, got %v", ids)
	}

	for _, id := range []int{3, 1, 2} {
		if err := s.PutExam(testExam(id)); err != nil {
			t.Fatalf("PutExam(%d): %v", id, err)
		}
	}

	ids, err = s.ListSetIDs()
	if err != nil {
		t.Fatalf("ListSetIDs: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("ListSetIDs = %v, want [1 2 3]", ids)
	}

	got, err := s.GetExam(2)
	if err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	if got.SetID != 2 || got.Title != "Sample Set" || got.Duration != 30 {
		t.Errorf("exam header = %+v", got)
	}
	if len(got.Sections) != 2 || len(got.Sections[0].Questions) != 1 {
		t.Fatalf("sections not round-tripped: %+v", got.Sections)
	}
	if got.Sections[0].Questions[0].Answer != "B" {
		t.Errorf("answer key lost: %+v", got.Sections[0].Questions[0])
	}

	_, err = s.GetExam(99)
	if !errors.Is(err, exam.ErrExamNotFound) {
		t.Errorf("GetExam(99) = %v, want ErrExamNotFound", err)
	}
}

func TestPutExamReplacesAndClears(t *testing.T) {
	s := newTestStore(t)

	if err := s.PutExam(testExam(1)); err != nil {
		t.Fatalf("PutExam: %v", err)
	}
	updated := testExam(1)
	updated.Title = "Revised Set"
	if err := s.PutExam(updated); err != nil {
		t.Fatalf("PutExam replace: %v", err)
	}

	got, err := s.GetExam(1)
	if err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	if got.Title != "Revised Set" {
		t.Errorf("Title = %q, want replacement to win", got.Title)
	}

	if err := s.ClearExams(); err != nil {
		t.Fatalf("ClearExams: %v", err)
	}
	ids, err := s.ListSetIDs()
	if err != nil {
		t.Fatalf("ListSetIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("catalog not cleared: %v", ids)
	}
}

func TestPutExamRejectsBrokenAnswerKey(t *testing.T) {
	s := newTestStore(t)

	ex := testExam(1)
	ex.Sections[0].Questions[0].Answer = "Z"
	if err := s.PutExam(ex); err == nil {
		t.Fatal("expected answer-key validation failure")
	}
}

func TestGetExamNormalizesLegacyKinds(t *testing.T) {
	s := newTestStore(t)

	ex := testExam(1)
	ex.Sections[0].Kind = ""
	ex.Sections[1].Kind = ""
	if err := s.PutExam(ex); err != nil {
		t.Fatalf("PutExam: %v", err)
	}

	got, err := s.GetExam(1)
	if err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	if got.Sections[0].Kind != model.KindWeight1 {
		t.Errorf("Section A kind = %q, want %q", got.Sections[0].Kind, model.KindWeight1)
	}
	if got.Sections[1].Kind != model.KindWeight2 {
		t.Errorf("Section B kind = %q, want %q", got.Sections[1].Kind, model.KindWeight2)
	}
}

func TestResultRoundTrip(t *testing.T) {
	s := newTestStore(t)

	b := "B"
	in := model.Result{
		SetID:       1,
		Answers:     []model.AnswerEntry{{QuestionID: 1, SelectedOption: &b}, {QuestionID: 2}},
		Score:       1,
		TimeUsed:    420,
		StudentID:   "12345",
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	created, err := s.CreateResult(in)
	if err != nil {
		t.Fatalf("CreateResult: %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateResult did not assign an id")
	}

	got, err := s.GetResult(created.ID)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if got.SetID != 1 || got.Score != 1 || got.TimeUsed != 420 || got.StudentID != "12345" {
		t.Errorf("result fields = %+v", got)
	}
	if !got.SubmittedAt.Equal(in.SubmittedAt) {
		t.Errorf("SubmittedAt = %v, want %v", got.SubmittedAt, in.SubmittedAt)
	}
	if len(got.Answers) != 2 {
		t.Fatalf("len(Answers) = %d, want 2", len(got.Answers))
	}
	if !got.Answers[0].Answered() || *got.Answers[0].SelectedOption != "B" {
		t.Errorf("answered entry lost: %+v", got.Answers[0])
	}
	if got.Answers[1].Answered() {
		t.Errorf("unanswered entry gained a selection: %+v", got.Answers[1])
	}

	_, err = s.GetResult("missing")
	if !errors.Is(err, exam.ErrResultNotFound) {
		t.Errorf("GetResult(missing) = %v, want ErrResultNotFound", err)
	}
}

func TestCreateResultIDsAreUnique(t *testing.T) {
	s := newTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		created, err := s.CreateResult(model.Result{SetID: 1, SubmittedAt: time.Now().UTC()})
		if err != nil {
			t.Fatalf("CreateResult: %v", err)
		}
		if seen[created.ID] {
			t.Fatalf("duplicate result id %q", created.ID)
		}
		seen[created.ID] = true
	}
}
