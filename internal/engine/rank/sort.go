// Package rank provides the comparator-based sorting primitives and the
// domain sort policies layered on top of them. Both sorts return new slices
// and never mutate their input.
package rank

// Comparator is a three-way comparison: negative when a orders before b,
// positive when after, zero when equal.
type Comparator[T any] func(a, b T) int

// QuickSort sorts by partitioning around the middle element into
// less/equal/greater buckets, which keeps duplicate keys from degrading the
// recursion. Not stable; callers that need stability use MergeSort.
func QuickSort[T any](items []T, cmp Comparator[T]) []T {
	if len(items) <= 1 {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	pivot := items[len(items)/2]
	var less, equal, greater []T

	for _, item := range items {
		switch c := cmp(item, pivot); {
		case c < 0:
			less = append(less, item)
		case c > 0:
			greater = append(greater, item)
		default:
			equal = append(equal, item)
		}
	}

	result := QuickSort(less, cmp)
	result = append(result, equal...)
	result = append(result, QuickSort(greater, cmp)...)
	return result
}

// MergeSort is a stable divide-and-conquer sort with O(n log n) worst case.
func MergeSort[T any](items []T, cmp Comparator[T]) []T {
	if len(items) <= 1 {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	mid := len(items) / 2
	left := MergeSort(items[:mid], cmp)
	right := MergeSort(items[mid:], cmp)
	return merge(left, right, cmp)
}

func merge[T any](left, right []T, cmp Comparator[T]) []T {
	result := make([]T, 0, len(left)+len(right))
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		// <= keeps equal elements in left-before-right order (stability).
		if cmp(left[i], right[j]) <= 0 {
			result = append(result, left[i])
			i++
		} else {
			result = append(result, right[j])
			j++
		}
	}

	result = append(result, left[i:]...)
	result = append(result, right[j:]...)
	return result
}
