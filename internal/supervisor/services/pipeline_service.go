// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package services

import (
	"context"
)

// Pipeline is satisfied by *ingest.Pipeline.
type Pipeline interface {
	Serve(ctx context.Context) error
}

// IngestPipelineService supervises the ingest consumer. Pipeline.Serve
// builds a fresh router on every call, so suture can restart it after a
// crash; requests submitted while it is down are refused with 503.
type IngestPipelineService struct {
	pipeline Pipeline
}

// NewIngestPipelineService wraps p.
func NewIngestPipelineService(p Pipeline) *IngestPipelineService {
	return &IngestPipelineService{pipeline: p}
}

// Serve implements suture.Service.
func (s *IngestPipelineService) Serve(ctx context.Context) error {
	return s.pipeline.Serve(ctx)
}

func (s *IngestPipelineService) String() string {
	return "ingest-pipeline"
}
