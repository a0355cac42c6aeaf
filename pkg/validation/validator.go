package validation

import (
	"context"
	"fmt"

	"github.com/dshills/dungeonkeep/pkg/dungeon"
)

// DefaultValidator runs every quantified invariant of spec §8 (P1-P6;
// P7-P9 are cross-call properties exercised by validation_test.go rather
// than single-artifact checks) against a finished Artifact, grounded on
// the teacher's DefaultValidator shape (validator.go).
type DefaultValidator struct{}

// NewValidator returns a DefaultValidator as a dungeon.Validator.
func NewValidator() dungeon.Validator {
	return &DefaultValidator{}
}

// checks lists every single-artifact property in P-numbered order.
var checks = []func(*dungeon.Artifact) dungeon.ConstraintResult{
	CheckConnectivity,
	CheckNoDiagonalOpenings,
	CheckWallExposure,
	CheckOrphanDoors,
	CheckMachineContainment,
	CheckKeyReachability,
}

// Validate runs every check in checks, computes metrics, and assembles a
// ValidationReport. Passed is true only when every check reports
// satisfied.
func (v *DefaultValidator) Validate(ctx context.Context, artifact *dungeon.Artifact, cfg *dungeon.Config) (*dungeon.ValidationReport, error) {
	if artifact == nil {
		return nil, fmt.Errorf("validate: artifact cannot be nil")
	}
	if artifact.Level == nil {
		return nil, fmt.Errorf("validate: artifact has no level")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	report := &dungeon.ValidationReport{Passed: true}
	for _, check := range checks {
		result := check(artifact)
		report.Results = append(report.Results, result)
		if !result.Satisfied {
			report.Passed = false
			report.Errors = append(report.Errors, result.Name+": "+result.Details)
		}
	}

	report.Metrics = computeMetrics(artifact)
	return report, nil
}
