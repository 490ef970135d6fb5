package dto

import (
	"encoding/json"
	"fmt"

	"github.com/fundchain/riskd/internal/domain/model"
)

// AnalyzeProjectRequest is the wire form of a scoring request. Counters are
// pointers so a missing field can be told apart from zero.
type AnalyzeProjectRequest struct {
	Description          string   `json:"description"`
	ExistingDescriptions []string `json:"existing_descriptions"`
	WalletAgeDays        *int     `json:"wallet_age_days"`
	PastInvestments      *int     `json:"past_investments"`

	decodeErr error
}

// InvalidRequest stands in for a batch element that could not be decoded.
// The description, when recoverable, is kept for the error preview.
func InvalidRequest(description string, err error) AnalyzeProjectRequest {
	return AnalyzeProjectRequest{Description: description, decodeErr: err}
}

// DecodeBatch decodes each raw element on its own. Elements that do not
// decode become invalid requests carrying whatever description was readable.
func DecodeBatch(raw []json.RawMessage) []AnalyzeProjectRequest {
	reqs := make([]AnalyzeProjectRequest, len(raw))
	for i, item := range raw {
		if err := json.Unmarshal(item, &reqs[i]); err != nil {
			var partial struct {
				Description string `json:"description"`
			}
			_ = json.Unmarshal(item, &partial)
			reqs[i] = InvalidRequest(partial.Description, fmt.Errorf("invalid JSON: %w", err))
		}
	}
	return reqs
}

// ToModel validates the request and builds the domain value.
func (r AnalyzeProjectRequest) ToModel() (model.AnalysisRequest, error) {
	if r.decodeErr != nil {
		return model.AnalysisRequest{}, &model.ValidationError{Field: "body", Reason: r.decodeErr.Error()}
	}
	if r.WalletAgeDays == nil {
		return model.AnalysisRequest{}, &model.ValidationError{Field: "wallet_age_days", Reason: "is required"}
	}
	if r.PastInvestments == nil {
		return model.AnalysisRequest{}, &model.ValidationError{Field: "past_investments", Reason: "is required"}
	}
	return model.NewAnalysisRequest(r.Description, r.ExistingDescriptions, *r.WalletAgeDays, *r.PastInvestments)
}

// AnalysisResponse carries the four scores.
type AnalysisResponse struct {
	MLScamScore     float64 `json:"ml_scam_score"`
	PlagiarismScore float64 `json:"plagiarism_score"`
	WalletRiskScore float64 `json:"wallet_risk_score"`
	FinalRiskScore  float64 `json:"final_risk_score"`
}

// FromResult maps a domain result to the response DTO.
func FromResult(r model.AnalysisResult) AnalysisResponse {
	return AnalysisResponse{
		MLScamScore:     r.MLScamScore(),
		PlagiarismScore: r.PlagiarismScore(),
		WalletRiskScore: r.WalletRiskScore(),
		FinalRiskScore:  r.FinalRiskScore(),
	}
}

// ErrorEntryResponse is a failed batch element.
type ErrorEntryResponse struct {
	Error       string `json:"error"`
	Description string `json:"description"`
}

// BatchItemResponse is one batch element: exactly one of Result or Failure
// is set. It encodes as the bare result or error object.
type BatchItemResponse struct {
	Result  *AnalysisResponse
	Failure *ErrorEntryResponse
}

func (i BatchItemResponse) MarshalJSON() ([]byte, error) {
	switch {
	case i.Failure != nil:
		return json.Marshal(i.Failure)
	case i.Result != nil:
		return json.Marshal(i.Result)
	default:
		return nil, fmt.Errorf("batch item has neither result nor error")
	}
}

func (i *BatchItemResponse) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if _, isError := probe["error"]; isError {
		i.Failure = &ErrorEntryResponse{}
		return json.Unmarshal(data, i.Failure)
	}
	i.Result = &AnalysisResponse{}
	return json.Unmarshal(data, i.Result)
}

// BatchResponse is the batch envelope.
type BatchResponse struct {
	Results []BatchItemResponse `json:"results"`
	Total   int                 `json:"total"`
}

// FromBatch maps a domain batch result to the response DTO.
func FromBatch(b model.BatchResult) BatchResponse {
	items := b.Items()
	resp := BatchResponse{Results: make([]BatchItemResponse, 0, len(items)), Total: b.Total()}
	for _, item := range items {
		if entry, failed := item.Failure(); failed {
			resp.Results = append(resp.Results, BatchItemResponse{Failure: &ErrorEntryResponse{
				Error:       entry.Error,
				Description: entry.DescriptionPreview,
			}})
			continue
		}
		result, _ := item.Result()
		r := FromResult(result)
		resp.Results = append(resp.Results, BatchItemResponse{Result: &r})
	}
	return resp
}
