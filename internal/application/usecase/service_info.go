package usecase

import (
	"github.com/fundchain/riskd/internal/application/dto"
	"github.com/fundchain/riskd/internal/domain/service"
)

const (
	ServiceName    = "FundChain AI Service"
	ServiceVersion = "1.0.0"
)

// DescribeService reports service status and classifier metadata.
type DescribeService struct {
	aggregator *service.RiskAggregator
}

// NewDescribeService creates a new DescribeService use case.
func NewDescribeService(aggregator *service.RiskAggregator) *DescribeService {
	return &DescribeService{aggregator: aggregator}
}

// Status returns the root status document.
func (uc *DescribeService) Status() dto.ServiceStatusResponse {
	_, loaded := uc.aggregator.ClassifierInfo()
	return dto.ServiceStatusResponse{
		Status:      "online",
		Service:     ServiceName,
		Version:     ServiceVersion,
		ModelLoaded: loaded,
	}
}

// ModelInfo describes the loaded classifier, or reports that none is loaded.
func (uc *DescribeService) ModelInfo() dto.ModelInfoResponse {
	info, loaded := uc.aggregator.ClassifierInfo()
	if !loaded {
		return dto.ModelInfoResponse{Loaded: false, Error: "Model not loaded"}
	}
	return dto.ModelInfoResponse{
		Loaded:        true,
		ModelPath:     info.Location,
		ModelType:     info.ModelType,
		PipelineSteps: info.PipelineSteps,
	}
}
