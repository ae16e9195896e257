package exam

import "github.com/examdesk/examportal/internal/model"

// Series is one labeled row of chart data, aligned to Breakdown.Labels.
type Series struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
}

// Breakdown is a rendering-agnostic per-section summary of a result: two
// category labels and two aligned series (correct and incorrect counts).
type Breakdown struct {
	Labels   []string `json:"labels"`
	Datasets []Series `json:"datasets"`
}

// SectionBreakdown counts, per section kind, the submitted answers that
// matched the answer key and those that did not. Unlike Compile's stats,
// questions the submission never mentioned are not tallied at all: only
// entries actually present in the result count, so an entry with a null
// selection lands in the incorrect column while an omitted question lands
// nowhere.
func SectionBreakdown(ex model.Exam, res model.Result) Breakdown {
	p := poolsOf(ex)

	labels := make([]string, len(scoredKinds))
	correct := make([]int, len(scoredKinds))
	incorrect := make([]int, len(scoredKinds))
	for i, k := range scoredKinds {
		labels[i] = sectionLabel(ex, k)
	}

	for _, a := range res.Answers {
		for i, k := range scoredKinds {
			q, ok := p.byKind[k][a.QuestionID]
			if !ok {
				continue
			}
			if a.Answered() && *a.SelectedOption == q.Answer {
				correct[i]++
			} else {
				incorrect[i]++
			}
			break
		}
	}

	return Breakdown{
		Labels: labels,
		Datasets: []Series{
			{Label: "Correct Answers", Data: correct},
			{Label: "Incorrect Answers", Data: incorrect},
		},
	}
}

// sectionLabel prefers the display name of the first section of the given
// kind and falls back to the historical labels.
func sectionLabel(ex model.Exam, k model.SectionKind) string {
	for _, s := range ex.Sections {
		if s.Kind == k && s.Name != "" {
			return s.Name
		}
	}
	switch k {
	case model.KindWeight1:
		return "Section A"
	default:
		return "Section B"
	}
}
