package caseview

import (
	"strconv"

	"github.com/aria/video-analyzer/internal/cases"
)

type Field struct {
	Label string
	Value string
}

// Panel is one block of case information. Hidden panels are not drawn.
type Panel struct {
	Title  string
	Fields []Field
	Hidden bool
}

func buildPanels(cs *cases.Case) []Panel {
	return []Panel{
		{
			Title: "Subject",
			Fields: []Field{
				{"Index ID", cs.ID},
				{"Date of Birth", cs.DOB},
				{"Sex", cs.Sex},
				{"Affection", strconv.Itoa(cs.Affection)},
			},
		},
		{
			Title: "Family",
			Fields: []Field{
				{"Family ID", cs.FamilyID},
				{"Family Type", cs.FamilyType},
				{"Mother ID", cs.MotherID},
				{"Father ID", cs.FatherID},
			},
		},
		{
			Title: "Sample",
			Fields: []Field{
				{"Submitted ID", cs.Sample.SubmittedID},
				{"Index ID", cs.Sample.IndexID},
				{"DNA Source", cs.Sample.DNASource},
				{"Platform", cs.Sample.Platform},
				{"Predicted Ancestry", cs.Sample.PredictedAncestry},
			},
		},
		scoresPanel(cs.Scores),
	}
}

// scoresPanel lists only the scores that are present and hides itself
// when there are none.
func scoresPanel(s cases.Scores) Panel {
	p := Panel{Title: "Clinical Scores", Hidden: !s.Any()}
	for _, sc := range []struct {
		name  string
		value *float64
	}{
		{"ADOS", s.ADOS},
		{"ADI-R", s.ADI},
		{"Vineland", s.Vineland},
	} {
		if sc.value != nil {
			p.Fields = append(p.Fields, Field{sc.name, strconv.FormatFloat(*sc.value, 'f', -1, 64)})
		}
	}
	return p
}

func (c *Controller) Panels() []Panel {
	out := make([]Panel, len(c.panels))
	copy(out, c.panels)
	return out
}
