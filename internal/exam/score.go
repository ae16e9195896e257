package exam

import "github.com/examdesk/examportal/internal/model"

// pools indexes an exam's questions by id, per scoring kind. It is the one
// place the kind weights are applied, shared by the write-path scorer and
// the read-path compiler.
type pools struct {
	byKind map[model.SectionKind]map[int]model.Question
}

var scoredKinds = []model.SectionKind{model.KindWeight1, model.KindWeight2}

func poolsOf(ex model.Exam) pools {
	p := pools{byKind: make(map[model.SectionKind]map[int]model.Question, len(scoredKinds))}
	for _, k := range scoredKinds {
		idx := make(map[int]model.Question)
		for _, q := range ex.QuestionsByKind(k) {
			idx[q.ID] = q
		}
		p.byKind[k] = idx
	}
	return p
}

// points returns the marks one answer entry earns: the kind's weight when
// the entry's question is found in that kind's pool and the selected option
// equals the answer key, otherwise 0. Unanswered entries and entries
// referencing unknown question ids earn nothing.
func (p pools) points(a model.AnswerEntry) int {
	if !a.Answered() {
		return 0
	}
	for _, k := range scoredKinds {
		if q, ok := p.byKind[k][a.QuestionID]; ok && *a.SelectedOption == q.Answer {
			return k.Weight()
		}
	}
	return 0
}

// find resolves a question id across the scored pools.
func (p pools) find(id int) (model.Question, model.SectionKind, bool) {
	for _, k := range scoredKinds {
		if q, ok := p.byKind[k][id]; ok {
			return q, k, true
		}
	}
	return model.Question{}, "", false
}

// Score computes the weighted score of a set of answers against an exam.
// Pure and deterministic: identical inputs always yield the identical score.
func Score(ex model.Exam, answers []model.AnswerEntry) int {
	p := poolsOf(ex)
	score := 0
	for _, a := range answers {
		score += p.points(a)
	}
	return score
}

// MaxScore is the highest score any submission can reach for this exam.
func MaxScore(ex model.Exam) int {
	total := 0
	for _, k := range scoredKinds {
		total += len(ex.QuestionsByKind(k)) * k.Weight()
	}
	return total
}
