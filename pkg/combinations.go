package hadronia

// Combinations iterates over the k-subsets of {0..n-1} in lexicographic
// order. Each subset is emitted exactly once, independently of the values
// the indices refer to.
//
//	c := NewCombinations(4, 2)
//	for c.Next() {
//		use(c.Indices())
//	}
type Combinations struct {
	n, k    int
	indices []int
	started bool
	done    bool
}

func NewCombinations(n, k int) *Combinations {
	c := &Combinations{n: n, k: k}
	if k <= 0 || k > n {
		c.done = true
	}
	return c
}

// Next advances to the next subset. It returns false when exhausted.
func (c *Combinations) Next() bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
		c.indices = make([]int, c.k)
		for i := range c.indices {
			c.indices[i] = i
		}
		return true
	}
	// rightmost index that can still move
	i := c.k - 1
	for i >= 0 && c.indices[i] == c.n-c.k+i {
		i--
	}
	if i < 0 {
		c.done = true
		return false
	}
	c.indices[i]++
	for j := i + 1; j < c.k; j++ {
		c.indices[j] = c.indices[j-1] + 1
	}
	return true
}

// Indices returns the current subset. The slice is reused by Next.
func (c *Combinations) Indices() []int {
	return c.indices
}

// Binomial returns n choose k. When limit > 0 the count stops growing once it
// passes limit and limit+1 is returned.
func Binomial(n, k, limit int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
		if limit > 0 && result > limit {
			return limit + 1
		}
	}
	return result
}
