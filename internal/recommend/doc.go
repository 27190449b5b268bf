// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

/*
Package recommend generates recommendation groups for learners.

Three group types are produced per request:

  - personalized: published items ranked by profile affinity, using the same
    weight table as personalized search. Confidence is the mean affinity of
    the selected items.
  - trending: published items ranked by total interaction count. Available
    to anonymous learners; carries a fixed configured confidence because the
    signal is population-level, not per-learner.
  - similar: items sharing subjects or tags with the learner's most recently
    viewed item. Confidence is the mean label-overlap fraction. Degrades to
    profile affinity when the learner has no usable viewing history.

Generation is deterministic: the same snapshot, profile, and configuration
always produce the same groups in the same order. Group IDs are the group
type strings, stable across calls.

Completed items are excluded from all groups unless exclusion would leave a
group empty.
*/
package recommend
