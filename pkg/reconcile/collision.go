package reconcile

import (
	"sort"

	"github.com/pawprint/pawprint/pkg/normalize"
	"github.com/pawprint/pawprint/pkg/types"
)

// Collision records a product key claimed by records whose names are
// not similar enough to merge. The records stay separate under
// suffixed keys until a human approves the merge.
type Collision struct {
	Key        string           `json:"key" yaml:"key"`
	Sources    []types.SourceID `json:"sources" yaml:"sources"`
	Similarity float64          `json:"similarity" yaml:"similarity"`
	Clusters   int              `json:"clusters" yaml:"clusters"`
}

// clusterGroup partitions a key group into name-similarity clusters.
// Each record joins the first existing cluster whose representative
// name scores at or above the threshold; otherwise it opens a new
// cluster. The group is sorted by the winner tie-break first, so
// cluster membership is independent of input order.
//
// The returned minSim is the lowest similarity observed between any
// record and the representative of a cluster it did not join; it is
// meaningful only when more than one cluster comes back.
func clusterGroup(group []scored, threshold float64) (clusters [][]scored, minSim float64) {
	sortGroup(group)
	minSim = 1
	var reps []string
	for _, s := range group {
		name := normalize.Fold(s.Brand.CleanedName)
		placed := false
		for i, rep := range reps {
			sim := normalize.Similarity(rep, name)
			if !placed && sim >= threshold {
				clusters[i] = append(clusters[i], s)
				placed = true
				continue
			}
			if sim < minSim {
				minSim = sim
			}
		}
		if !placed {
			clusters = append(clusters, []scored{s})
			reps = append(reps, name)
		}
	}
	return clusters, minSim
}

// collisionSources lists every source across the clusters, sorted and
// deduplicated for the review log.
func collisionSources(clusters [][]scored) []types.SourceID {
	seen := make(map[types.SourceID]bool)
	var out []types.SourceID
	for _, cluster := range clusters {
		for _, s := range cluster {
			if seen[s.Candidate.SourceID] {
				continue
			}
			seen[s.Candidate.SourceID] = true
			out = append(out, s.Candidate.SourceID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
