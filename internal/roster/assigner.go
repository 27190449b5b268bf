// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

// Package roster assigns unplaced class members to groups under capacity
// constraints.
//
// Assignment is balanced and seed-deterministic: members are shuffled with
// a caller-supplied seed, then dealt round-robin across the groups, skipping
// any group that has reached capacity. The same members, groups, and seed
// always produce the same plan; different seeds vary the placement so
// repeated runs do not always group the same members together.
package roster

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/lodestar-learning/lodestar/internal/metrics"
	"github.com/lodestar-learning/lodestar/internal/models"
)

// ErrNoGroupsAvailable indicates there were members to place but no groups
// to place them into.
var ErrNoGroupsAvailable = errors.New("no groups available for assignment")

// Assigner plans capacity-constrained group assignments.
type Assigner struct {
	logger zerolog.Logger
}

// NewAssigner creates an assigner.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAssigner(logger zerolog.Logger) *Assigner {
	return &Assigner{
		logger: logger.With().Str("component", "roster").Logger(),
	}
}

// AutoAssign distributes memberIDs across groups and returns the plan. The
// input groups are not modified; the plan maps group ID to the member IDs
// newly assigned there.
//
// Members already present in a group are never reassigned; their seats count
// against capacity. Members who cannot be placed because every group is full
// are reported in Unassigned rather than failing the whole plan.
//
// No members is a trivial success even with no groups. Members with no
// groups at all is ErrNoGroupsAvailable.
func (a *Assigner) AutoAssign(memberIDs []string, groups []models.Group, seed int64) (*models.AssignmentPlan, error) {
	plan := &models.AssignmentPlan{
		Assignments: make(map[string][]string, len(groups)),
		Unassigned:  []string{},
	}

	if len(memberIDs) == 0 {
		return plan, nil
	}
	if len(groups) == 0 {
		return nil, ErrNoGroupsAvailable
	}

	shuffled := make([]string, len(memberIDs))
	copy(shuffled, memberIDs)
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic placement shuffle, not crypto
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	// planned tracks seats taken this run, on top of existing membership.
	planned := make([]int, len(groups))

	next := 0
	for _, memberID := range shuffled {
		idx, ok := nextOpenGroup(groups, planned, next)
		if !ok {
			plan.Unassigned = append(plan.Unassigned, memberID)
			continue
		}

		groupID := groups[idx].ID
		plan.Assignments[groupID] = append(plan.Assignments[groupID], memberID)
		planned[idx]++
		plan.Placed++
		next = idx + 1
	}

	// Deterministic report order regardless of shuffle outcome.
	sort.Strings(plan.Unassigned)

	metrics.RecordAssignment(plan.Placed, len(plan.Unassigned))

	a.logger.Info().
		Int("members", len(memberIDs)).
		Int("groups", len(groups)).
		Int("placed", plan.Placed).
		Int("unassigned", len(plan.Unassigned)).
		Int64("seed", seed).
		Msg("auto-assignment planned")

	return plan, nil
}

// nextOpenGroup scans round-robin from start for a group with a free seat.
func nextOpenGroup(groups []models.Group, planned []int, start int) (int, bool) {
	for offset := 0; offset < len(groups); offset++ {
		idx := (start + offset) % len(groups)
		if !groups[idx].AtCapacity(planned[idx]) {
			return idx, true
		}
	}
	return 0, false
}
