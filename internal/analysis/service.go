package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/model"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/prefs"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/records"
)

// ErrNotFound signals an identifier matching zero records in the resolved
// backend. User-visible, not an operational error.
var ErrNotFound = errors.New("project not found")

type NotFoundError struct {
	Identifier string
	Mode       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("project %q not found in %s source", e.Identifier, e.Mode)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Auditor records completed analyses on the append-only history. Optional.
type Auditor interface {
	RecordAnalysis(ctx context.Context, callerID int64, s Summary)
}

// Service runs the full lookup-align-predict-aggregate pipeline.
type Service struct {
	resolver *records.Resolver
	artifact *model.Artifact
	auditor  Auditor
	log      *logging.Logger
}

func NewService(resolver *records.Resolver, artifact *model.Artifact, auditor Auditor, log *logging.Logger) *Service {
	return &Service{resolver: resolver, artifact: artifact, auditor: auditor, log: log}
}

func (s *Service) Analyze(ctx context.Context, callerID int64, identifier string, pref prefs.CallerPreference) (Summary, error) {
	rows, mode := s.resolver.Resolve(ctx, identifier, pref)
	if len(rows) == 0 {
		return Summary{}, &NotFoundError{Identifier: records.Normalize(identifier), Mode: mode}
	}

	vec := s.artifact.Align(rows)
	predictions, err := s.artifact.Predict(vec)
	if err != nil {
		return Summary{}, err
	}

	summary, err := Aggregate(identifier, rows, predictions)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", model.ErrPrediction, err)
	}
	summary.Mode = mode

	if s.auditor != nil {
		s.auditor.RecordAnalysis(ctx, callerID, summary)
	}

	s.log.Info("analysis completed",
		"caller_id", callerID,
		"identifier", summary.Identifier,
		"mode", mode,
		"stages", len(rows),
		"mean_risk", summary.MeanRisk,
		"status", summary.Status,
	)
	return summary, nil
}
