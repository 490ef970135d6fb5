package model

// ClassifierInfo describes a loaded classifier artifact.
type ClassifierInfo struct {
	Location      string
	ModelType     string
	PipelineSteps []string
}
