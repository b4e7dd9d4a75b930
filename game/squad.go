package game

// HighestRank returns the subset of dice showing the squad's maximum top
// face, and that maximum. Ties are expected: several dice can be "highest"
// at once, and only these are legally movable. An empty squad yields rank 0.
func HighestRank(dice []*Die) ([]*Die, int) {
	rank := 0
	for _, d := range dice {
		if tf := d.TopFace(); tf > rank {
			rank = tf
		}
	}
	if rank == 0 {
		return nil, 0
	}
	var subset []*Die
	for _, d := range dice {
		if d.TopFace() == rank {
			subset = append(subset, d)
		}
	}
	return subset, rank
}
