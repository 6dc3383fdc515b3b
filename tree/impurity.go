package tree

import "math"

// giniImpurity is 1 - Σ p_c² over the class proportions. 0 means pure.
func giniImpurity(counts []int, total int) float64 {
	impurity := 1.0
	n := float64(total)
	for _, count := range counts {
		p := float64(count) / n
		impurity -= p * p
	}
	return impurity
}

// entropyImpurity is the Shannon entropy -Σ p_c·log2(p_c) of the class
// proportions, in bits.
func entropyImpurity(counts []int, total int) float64 {
	entropy := 0.0
	n := float64(total)
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}
