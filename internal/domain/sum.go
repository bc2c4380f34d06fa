package domain

// Add returns a+b. Overflow wraps around as int64 arithmetic does.
func Add(a, b int64) int64 {
	return a + b
}

// SumList returns the sum of nums; the sum of an empty list is 0.
func SumList(nums []int64) int64 {
	var total int64
	for _, n := range nums {
		total += n
	}
	return total
}
