package pcpack

// AlignUp rounds pos up to the next multiple of n. Boundaries of 1 or
// less are a no-op. Parse and serialize share this so the two sides can
// never disagree about padding.
func AlignUp(pos, n int) int {
	if n <= 1 {
		return pos
	}
	if m := pos % n; m != 0 {
		return pos + (n - m)
	}
	return pos
}
