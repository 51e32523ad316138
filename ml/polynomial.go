package ml

// Expand maps a feature vector to its polynomial terms without a bias term:
// all monomials of degree 1 up to the given degree, each degree block in
// combinations-with-replacement order. This is the ordering the trainer fits
// coefficients in, so artifact coefficients line up index for index.
func Expand(x []float64, degree int) []float64 {
	if degree <= 1 {
		out := make([]float64, len(x))
		copy(out, x)
		return out
	}

	type term struct {
		value float64
		last  int
	}

	out := make([]float64, 0, ExpandedSize(len(x), degree))
	prev := make([]term, len(x))
	for i, v := range x {
		prev[i] = term{value: v, last: i}
		out = append(out, v)
	}

	// Degree k terms extend each degree k-1 term with every feature at or
	// after its last index, which keeps the block ordering stable.
	for k := 2; k <= degree; k++ {
		next := make([]term, 0, len(prev))
		for _, t := range prev {
			for j := t.last; j < len(x); j++ {
				nt := term{value: t.value * x[j], last: j}
				next = append(next, nt)
				out = append(out, nt.value)
			}
		}
		prev = next
	}
	return out
}

// ExpandedSize returns the number of terms Expand produces for n features at
// the given degree.
func ExpandedSize(n, degree int) int {
	if n <= 0 || degree <= 0 {
		return 0
	}
	total := 0
	for k := 1; k <= degree; k++ {
		total += binomial(n+k-1, k)
	}
	return total
}

func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}
