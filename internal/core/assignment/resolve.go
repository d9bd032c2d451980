package assignment

import "sort"

// UnitInfo is the minimal unit projection needed for scope resolution.
type UnitInfo struct {
	ID     string
	Floor  int
	Active bool
}

// FloorRange is an inclusive floor filter. A nil range means all floors.
type FloorRange struct {
	From int
	To   int
}

// Contains reports whether floor falls inside the range.
func (r FloorRange) Contains(floor int) bool {
	return floor >= r.From && floor <= r.To
}

// ResolveUnits computes the unit set an assignment will freeze at creation
// time: all active units in the building, optionally restricted to an
// inclusive floor range. The result is sorted so overlap reporting and
// persistence are deterministic. The set is resolved once and never
// recomputed for an existing assignment.
func ResolveUnits(units []UnitInfo, floors *FloorRange) []string {
	var ids []string
	for _, u := range units {
		if !u.Active {
			continue
		}
		if floors != nil && !floors.Contains(u.Floor) {
			continue
		}
		ids = append(ids, u.ID)
	}
	sort.Strings(ids)
	return ids
}

// Overlap returns the sorted intersection of candidate with the union of
// taken unit sets. Used to detect double-assignment within a cycle.
func Overlap(candidate []string, taken [][]string) []string {
	claimed := make(map[string]bool)
	for _, set := range taken {
		for _, id := range set {
			claimed[id] = true
		}
	}

	var overlap []string
	for _, id := range candidate {
		if claimed[id] {
			overlap = append(overlap, id)
		}
	}
	sort.Strings(overlap)
	return overlap
}

// Subtract returns the sorted members of eligible not covered by any of
// the assigned sets. Used for unassigned-unit detection.
func Subtract(eligible []string, assigned [][]string) []string {
	covered := make(map[string]bool)
	for _, set := range assigned {
		for _, id := range set {
			covered[id] = true
		}
	}

	var missing []string
	for _, id := range eligible {
		if !covered[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}
