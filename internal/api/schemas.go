package api

import "github.com/aria/video-analyzer/internal/cases"

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

// CaseSummaryResponse is one entry of the case selector list.
type CaseSummaryResponse struct {
	ID         string                `json:"id"`
	Subject    string                `json:"subject"`
	DOB        string                `json:"dob"`
	Sex        string                `json:"sex"`
	FamilyType string                `json:"familyType"`
	Sample     SummarySampleResponse `json:"sample"`
}

type SummarySampleResponse struct {
	PredictedAncestry string `json:"predictedAncestry"`
}

func SummaryToResponse(s cases.Summary) CaseSummaryResponse {
	return CaseSummaryResponse{
		ID:         s.ID,
		Subject:    s.Subject,
		DOB:        s.DOB,
		Sex:        s.Sex,
		FamilyType: s.FamilyType,
		Sample: SummarySampleResponse{
			PredictedAncestry: s.Sample.PredictedAncestry,
		},
	}
}

func SummariesToResponse(list []cases.Summary) []CaseSummaryResponse {
	out := make([]CaseSummaryResponse, len(list))
	for i, s := range list {
		out[i] = SummaryToResponse(s)
	}
	return out
}
