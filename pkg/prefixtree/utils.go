package prefixtree

// CommonPrefix returns the longest leading substring shared by a and b.
// Comparison is byte-wise.
func CommonPrefix(a, b string) string {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}

	return a[:n]
}
