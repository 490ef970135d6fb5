package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fundchain/riskd/internal/application/dto"
	"github.com/fundchain/riskd/internal/application/usecase"
	"github.com/fundchain/riskd/internal/domain/model"
	"github.com/fundchain/riskd/internal/domain/valueobject"
)

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	analyzeProject *usecase.AnalyzeProject
	analyzeBatch   *usecase.AnalyzeBatch
	getAssessment  *usecase.GetAssessment
	describe       *usecase.DescribeService
	logger         *slog.Logger
}

// NewRiskServiceHandler creates a new gRPC handler.
func NewRiskServiceHandler(
	analyzeProject *usecase.AnalyzeProject,
	analyzeBatch *usecase.AnalyzeBatch,
	getAssessment *usecase.GetAssessment,
	describe *usecase.DescribeService,
	logger *slog.Logger,
) *RiskServiceHandler {
	return &RiskServiceHandler{
		analyzeProject: analyzeProject,
		analyzeBatch:   analyzeBatch,
		getAssessment:  getAssessment,
		describe:       describe,
		logger:         logger,
	}
}

// Proto-aligned request/response message types.

// AnalyzeProjectRequest represents the proto AnalyzeProjectRequest message.
type AnalyzeProjectRequest struct {
	Description          string   `json:"description"`
	ExistingDescriptions []string `json:"existing_descriptions"`
	WalletAgeDays        *int32   `json:"wallet_age_days"`
	PastInvestments      *int32   `json:"past_investments"`
}

// RiskScoresMsg represents the proto RiskScores message.
type RiskScoresMsg struct {
	MLScamScore     float64 `json:"ml_scam_score"`
	PlagiarismScore float64 `json:"plagiarism_score"`
	WalletRiskScore float64 `json:"wallet_risk_score"`
	FinalRiskScore  float64 `json:"final_risk_score"`
	RiskLevel       string  `json:"risk_level"`
}

// AnalyzeProjectResponse represents the proto AnalyzeProjectResponse message.
type AnalyzeProjectResponse struct {
	Scores *RiskScoresMsg `json:"scores"`
}

// AnalyzeBatchRequest represents the proto AnalyzeBatchRequest message.
type AnalyzeBatchRequest struct {
	Projects []*AnalyzeProjectRequest `json:"projects"`
}

// BatchItemMsg is one batch outcome: Scores on success, Error and
// Description on failure.
type BatchItemMsg struct {
	Scores      *RiskScoresMsg `json:"scores,omitempty"`
	Error       string         `json:"error,omitempty"`
	Description string         `json:"description,omitempty"`
}

// AnalyzeBatchResponse represents the proto AnalyzeBatchResponse message.
type AnalyzeBatchResponse struct {
	Results []*BatchItemMsg `json:"results"`
	Total   int32           `json:"total"`
}

// GetAssessmentRequest represents the proto GetAssessmentRequest message.
type GetAssessmentRequest struct {
	ID string `json:"id"`
}

// AssessmentMsg represents the proto ProjectAssessment message.
type AssessmentMsg struct {
	ID              string         `json:"id"`
	Description     string         `json:"description"`
	ReferenceCount  int32          `json:"reference_count"`
	WalletAgeDays   int32          `json:"wallet_age_days"`
	PastInvestments int32          `json:"past_investments"`
	Scores          *RiskScoresMsg `json:"scores"`
	AnalyzedAt      string         `json:"analyzed_at"`
}

// GetAssessmentResponse represents the proto GetAssessmentResponse message.
type GetAssessmentResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// GetModelInfoRequest represents the proto GetModelInfoRequest message.
type GetModelInfoRequest struct{}

// GetModelInfoResponse represents the proto GetModelInfoResponse message.
type GetModelInfoResponse struct {
	Loaded        bool     `json:"loaded"`
	ModelPath     string   `json:"model_path,omitempty"`
	ModelType     string   `json:"model_type,omitempty"`
	PipelineSteps []string `json:"pipeline_steps,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// AnalyzeProject scores one project description.
func (h *RiskServiceHandler) AnalyzeProject(ctx context.Context, req *AnalyzeProjectRequest) (*AnalyzeProjectResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	resp, err := h.analyzeProject.Execute(ctx, toRequestDTO(req))
	if err != nil {
		return nil, h.toStatus(ctx, "failed to analyze project", err)
	}

	return &AnalyzeProjectResponse{Scores: toScores(resp)}, nil
}

// AnalyzeBatch scores many descriptions; item failures are reported in place.
func (h *RiskServiceHandler) AnalyzeBatch(ctx context.Context, req *AnalyzeBatchRequest) (*AnalyzeBatchResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	reqs := make([]dto.AnalyzeProjectRequest, len(req.Projects))
	for i, p := range req.Projects {
		if p == nil {
			reqs[i] = dto.InvalidRequest("", errors.New("project is required"))
			continue
		}
		reqs[i] = toRequestDTO(p)
	}

	batch, err := h.analyzeBatch.Execute(ctx, reqs)
	if err != nil {
		return nil, h.toStatus(ctx, "failed to analyze batch", err)
	}

	out := &AnalyzeBatchResponse{Results: make([]*BatchItemMsg, 0, len(batch.Results)), Total: int32(batch.Total)}
	for _, item := range batch.Results {
		if item.Failure != nil {
			out.Results = append(out.Results, &BatchItemMsg{Error: item.Failure.Error, Description: item.Failure.Description})
			continue
		}
		out.Results = append(out.Results, &BatchItemMsg{Scores: toScores(*item.Result)})
	}
	return out, nil
}

// GetAssessment returns a recorded assessment.
func (h *RiskServiceHandler) GetAssessment(ctx context.Context, req *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	assessmentID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getAssessment.Execute(ctx, dto.GetAssessmentRequest{AssessmentID: assessmentID})
	if err != nil {
		return nil, h.toStatus(ctx, "failed to get assessment", err)
	}

	scores := toScores(result.AnalysisResponse)
	scores.RiskLevel = result.RiskLevel
	return &GetAssessmentResponse{
		Assessment: &AssessmentMsg{
			ID:              result.ID.String(),
			Description:     result.Description,
			ReferenceCount:  int32(result.ReferenceCount),
			WalletAgeDays:   int32(result.WalletAgeDays),
			PastInvestments: int32(result.PastInvestments),
			Scores:          scores,
			AnalyzedAt:      result.AnalyzedAt.Format(time.RFC3339Nano),
		},
	}, nil
}

// GetModelInfo describes the loaded classifier.
func (h *RiskServiceHandler) GetModelInfo(_ context.Context, _ *GetModelInfoRequest) (*GetModelInfoResponse, error) {
	info := h.describe.ModelInfo()
	return &GetModelInfoResponse{
		Loaded:        info.Loaded,
		ModelPath:     info.ModelPath,
		ModelType:     info.ModelType,
		PipelineSteps: info.PipelineSteps,
		Error:         info.Error,
	}, nil
}

// toStatus maps use case errors to gRPC status codes.
func (h *RiskServiceHandler) toStatus(ctx context.Context, msg string, err error) error {
	switch {
	case errors.Is(err, model.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrModelUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, usecase.ErrRecordingDisabled):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, model.ErrAssessmentNotFound):
		return status.Error(codes.NotFound, "assessment not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.ErrorContext(ctx, msg, slog.String("error", err.Error()))
		return status.Error(codes.Internal, usecase.FailureMessage(err))
	}
}

func toRequestDTO(req *AnalyzeProjectRequest) dto.AnalyzeProjectRequest {
	return dto.AnalyzeProjectRequest{
		Description:          req.Description,
		ExistingDescriptions: req.ExistingDescriptions,
		WalletAgeDays:        widen(req.WalletAgeDays),
		PastInvestments:      widen(req.PastInvestments),
	}
}

func widen(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func toScores(r dto.AnalysisResponse) *RiskScoresMsg {
	return &RiskScoresMsg{
		MLScamScore:     r.MLScamScore,
		PlagiarismScore: r.PlagiarismScore,
		WalletRiskScore: r.WalletRiskScore,
		FinalRiskScore:  r.FinalRiskScore,
		RiskLevel:       valueobject.RiskLevelFromScore(r.FinalRiskScore).String(),
	}
}
