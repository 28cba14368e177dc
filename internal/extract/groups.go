package extract

// SpecificGroups extracts specific-population mentions. The caregiver
// code keeps its historical counter key "pcg" while the term map carries
// the current code.
func SpecificGroups(in *Input) (map[string]int, map[string]string) {
	counts, terms := scanFamily(in.Vocab.SpecificGroups, in.Sentences)
	if n, ok := counts["cg"]; ok {
		delete(counts, "cg")
		counts["pcg"] += n
	}
	return counts, terms
}
