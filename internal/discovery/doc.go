// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

// Package discovery implements the search side of the engine: the filter
// pipeline, the relevance and personalization scorers, and the ranker that
// merges their scores into an ordered result list.
//
// Every function in this package is pure with respect to its inputs. A search
// takes an immutable catalog snapshot, a filter set, and an optional learner
// profile, and returns a new ordered result; no state survives between calls,
// so concurrent searches need no synchronization.
//
// The scoring model is deterministic and rule-based: fixed weight tables,
// additive accumulation, clamped to [0, 1]. Scoring functions are total and
// never return an error; out-of-range input data (e.g. a rating above 5) is
// clamped rather than rejected, so a data-quality problem in the catalog
// degrades a score instead of failing a learner-facing request.
package discovery
