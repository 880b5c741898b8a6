// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

/*
Package taste holds the preference and matching engine: recording
stances on content (liked, disliked, added to a list), computing
pairwise compatibility scores, and running versus matches between
friends.

# Compatibility

Compatibility weighs shared likes, shared dislikes, and the Jaccard
overlap of liked categories against opposing preferences, clamped to
[0, 100]. When either user has no recorded history at all the pair
scores a neutral 50.

# Versus Matches

A versus match walks a fixed number of rounds over a content pool drawn
from trending feeds, excluding anything either player has already rated
or listed. Both players choose LIKE or DISLIKE per round; a round where
both chose the same option is a matched round and scores a point for
each player. When the final round completes, the match closes and the
pair's compatibility score is computed once and stored on the match.

Choice submission is serialized per match, so two players answering the
same round concurrently never corrupt the session state.
*/
package taste
