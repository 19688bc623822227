package friendship

// CanonicalPair orders two user ids deterministically: the lexicographically
// smaller id first. The result is the same regardless of argument order, so
// an unordered pair always maps to the same edge row.
func CanonicalPair(a, b string) (lo, hi string) {
	if a > b {
		return b, a
	}
	return a, b
}
