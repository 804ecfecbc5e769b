// Package cases holds the read-only clinical case records shown next to the
// reference video, and the store that serves them.
package cases

import "time"

type Case struct {
	ID         string `json:"id"`
	Subject    string `json:"subject"`
	DOB        string `json:"dob"`
	Sex        string `json:"sex"`
	Affection  int    `json:"affection"`
	MotherID   string `json:"motherId"`
	FatherID   string `json:"fatherId"`
	FamilyID   string `json:"familyId"`
	FamilyType string `json:"familyType"`
	Sample     Sample `json:"sample"`
	Video      string `json:"video"`
	Scores     Scores `json:"scores"`

	// Placeholder marks the record served for ids that are not stored.
	Placeholder bool      `json:"-"`
	CreatedAt   time.Time `json:"-"`
}

type Sample struct {
	SubmittedID       string `json:"submittedId"`
	IndexID           string `json:"indexId"`
	DNASource         string `json:"dnaSource"`
	Platform          string `json:"platform"`
	PredictedAncestry string `json:"predictedAncestry"`
}

// Scores are the clinical instrument results. Each one is independently
// absent (nil), which serializes as null.
type Scores struct {
	ADOS     *float64 `json:"ados"`
	ADI      *float64 `json:"adi"`
	Vineland *float64 `json:"vineland"`
}

// Any reports whether at least one score is present.
func (s Scores) Any() bool {
	return s.ADOS != nil || s.ADI != nil || s.Vineland != nil
}

// Summary is the row shown in the case selector.
type Summary struct {
	ID         string        `json:"id"`
	Subject    string        `json:"subject"`
	DOB        string        `json:"dob"`
	Sex        string        `json:"sex"`
	FamilyType string        `json:"familyType"`
	Sample     SummarySample `json:"sample"`
}

type SummarySample struct {
	PredictedAncestry string `json:"predictedAncestry"`
}

func (c *Case) Summary() Summary {
	return Summary{
		ID:         c.ID,
		Subject:    c.Subject,
		DOB:        c.DOB,
		Sex:        c.Sex,
		FamilyType: c.FamilyType,
		Sample:     SummarySample{PredictedAncestry: c.Sample.PredictedAncestry},
	}
}
