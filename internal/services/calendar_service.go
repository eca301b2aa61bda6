package services

import (
	"sort"

	"tripweaver/internal/models/db_models"
)

// CalendarAssigner maps day clusters onto concrete calendar day slots,
// honoring hard day offsets of date-bound POIs.
type CalendarAssigner struct{}

func NewCalendarAssigner() *CalendarAssigner {
	return &CalendarAssigner{}
}

// Assign distributes clusters over day slots. constraints maps POI id to the
// required day offset from the trip start; offsets are clamped into
// [0, maxDays-1]. The result length is max(required days, cluster count);
// slots nothing landed on stay as empty placeholder days.
func (s *CalendarAssigner) Assign(clusters []DayCluster, constraints map[string]int, rank map[string]int, maxDays int) []DayCluster {
	if maxDays < 1 {
		maxDays = 1
	}

	ordered := s.orderByMeanRank(clusters, rank)

	requiredDays := 0
	for _, offset := range constraints {
		if offset >= requiredDays {
			requiredDays = offset + 1
		}
	}
	if requiredDays > maxDays {
		requiredDays = maxDays
	}
	slotCount := len(ordered)
	if requiredDays > slotCount {
		slotCount = requiredDays
	}

	slots := make([]*DayCluster, slotCount)
	placed := make(map[int]int) // cluster index -> slot index
	clusterOf := func(poiID string) int {
		for i := range ordered {
			for _, poi := range ordered[i].POIs {
				if poi.ID.String() == poiID {
					return i
				}
			}
		}
		return -1
	}

	// Deterministic constraint application order.
	boundIDs := make([]string, 0, len(constraints))
	for id := range constraints {
		boundIDs = append(boundIDs, id)
	}
	sort.Strings(boundIDs)

	for _, poiID := range boundIDs {
		offset := constraints[poiID]
		if offset < 0 {
			offset = 0
		}
		if offset > slotCount-1 {
			offset = slotCount - 1
		}

		ci := clusterOf(poiID)
		if ci < 0 {
			continue
		}
		if prev, ok := placed[ci]; ok {
			if prev == offset {
				continue
			}
			// The cluster is pinned elsewhere; move just this POI.
			s.transplant(&ordered[ci], poiID, &slots[offset])
			continue
		}
		if slots[offset] == nil {
			// Empty slot: the whole originating cluster moves in.
			slots[offset] = &ordered[ci]
			placed[ci] = offset
			continue
		}
		// Occupied by a different cluster: transplant only the POI.
		s.transplant(&ordered[ci], poiID, &slots[offset])
	}

	// Unconstrained clusters fill the empty slots in visiting order.
	slot := 0
	for ci := range ordered {
		if _, ok := placed[ci]; ok {
			continue
		}
		if len(ordered[ci].POIs) == 0 {
			continue
		}
		for slot < slotCount && slots[slot] != nil {
			slot++
		}
		if slot >= slotCount {
			slots = append(slots, &ordered[ci])
			slotCount++
			continue
		}
		slots[slot] = &ordered[ci]
		placed[ci] = slot
	}

	out := make([]DayCluster, len(slots))
	for i, c := range slots {
		if c == nil {
			out[i] = DayCluster{}
			continue
		}
		out[i] = *c
		out[i].recenter()
	}
	return out
}

func (s *CalendarAssigner) orderByMeanRank(clusters []DayCluster, rank map[string]int) []DayCluster {
	means := make([]float64, len(clusters))
	for i, c := range clusters {
		if len(c.POIs) == 0 {
			means[i] = float64(i)
			continue
		}
		total := 0
		for _, poi := range c.POIs {
			total += rank[poi.ID.String()]
		}
		means[i] = float64(total) / float64(len(c.POIs))
	}
	idx := make([]int, len(clusters))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return means[idx[a]] < means[idx[b]] })
	ordered := make([]DayCluster, len(clusters))
	for i, original := range idx {
		ordered[i] = clusters[original]
	}
	return ordered
}

// transplant moves one POI out of its cluster into the destination slot,
// creating a singleton cluster when the slot is empty.
func (s *CalendarAssigner) transplant(from *DayCluster, poiID string, dest **DayCluster) {
	// Cluster slices may share a backing array with their split siblings, so
	// both the removal and the insertion work on fresh allocations.
	var moved *db_models.POI
	kept := make([]*db_models.POI, 0, len(from.POIs))
	for _, poi := range from.POIs {
		if poi.ID.String() == poiID {
			moved = poi
			continue
		}
		kept = append(kept, poi)
	}
	if moved == nil {
		return
	}
	from.POIs = kept
	if *dest == nil {
		*dest = &DayCluster{POIs: []*db_models.POI{moved}}
		return
	}
	grown := make([]*db_models.POI, 0, len((*dest).POIs)+1)
	grown = append(grown, (*dest).POIs...)
	(*dest).POIs = append(grown, moved)
}
