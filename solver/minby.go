package solver

import "golang.org/x/exp/constraints"

// minBy finds the first element with the smallest key.
func minBy[T any, K constraints.Ordered](slice []T, keyFunc func(T) K) (T, K) {
	var minElem T
	var minKey K
	for i, elem := range slice {
		key := keyFunc(elem)
		if i == 0 || key < minKey {
			minElem, minKey = elem, key
		}
	}
	return minElem, minKey
}
