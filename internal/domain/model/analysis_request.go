package model

import (
	"slices"
	"strings"
)

// AnalysisRequest is a validated, immutable scoring request for one project.
type AnalysisRequest struct {
	description          string
	existingDescriptions []string
	walletAgeDays        int
	pastInvestments      int
}

// NewAnalysisRequest validates the request fields. The description must
// contain non-whitespace text and both counters must be non-negative.
func NewAnalysisRequest(
	description string,
	existingDescriptions []string,
	walletAgeDays int,
	pastInvestments int,
) (AnalysisRequest, error) {
	if strings.TrimSpace(description) == "" {
		return AnalysisRequest{}, &ValidationError{Field: "description", Reason: "is required"}
	}
	if walletAgeDays < 0 {
		return AnalysisRequest{}, &ValidationError{Field: "wallet_age_days", Reason: "must be non-negative"}
	}
	if pastInvestments < 0 {
		return AnalysisRequest{}, &ValidationError{Field: "past_investments", Reason: "must be non-negative"}
	}

	return AnalysisRequest{
		description:          description,
		existingDescriptions: slices.Clone(existingDescriptions),
		walletAgeDays:        walletAgeDays,
		pastInvestments:      pastInvestments,
	}, nil
}

func (r AnalysisRequest) Description() string { return r.description }
func (r AnalysisRequest) WalletAgeDays() int   { return r.walletAgeDays }
func (r AnalysisRequest) PastInvestments() int { return r.pastInvestments }

// ExistingDescriptions returns a copy of the reference descriptions.
func (r AnalysisRequest) ExistingDescriptions() []string {
	return slices.Clone(r.existingDescriptions)
}

// IsZero returns true for a request that was not built by NewAnalysisRequest.
func (r AnalysisRequest) IsZero() bool {
	return r.description == ""
}
