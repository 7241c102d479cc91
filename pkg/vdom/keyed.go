package vdom

// patchKeyedChildren reconciles two keyed child lists with minimal host
// moves. Shape: trim the common prefix and suffix, handle the pure
// insert/remove cases, then map keys to old positions, patch matches in
// place, drop stale nodes, and move only nodes outside the longest
// increasing subsequence of reused positions.
func (p *Patcher) patchKeyedChildren(oldCh, newCh []*VNode, container, anchor any, parent *Instance) {
	i := 0
	e1 := len(oldCh) - 1
	e2 := len(newCh) - 1

	// Common prefix.
	for i <= e1 && i <= e2 && sameVNode(oldCh[i], newCh[i]) {
		p.patch(oldCh[i], newCh[i], container, nil, parent)
		i++
	}
	// Common suffix.
	for i <= e1 && i <= e2 && sameVNode(oldCh[e1], newCh[e2]) {
		p.patch(oldCh[e1], newCh[e2], container, nil, parent)
		e1--
		e2--
	}

	if i > e1 {
		// Only additions remain; anchor on the node after the new block.
		if i <= e2 {
			var nextAnchor any = anchor
			if e2+1 < len(newCh) {
				nextAnchor = newCh[e2+1].HostNode()
			}
			for ; i <= e2; i++ {
				p.patch(nil, newCh[i], container, nextAnchor, parent)
			}
		}
		return
	}
	if i > e2 {
		// Only removals remain.
		for ; i <= e1; i++ {
			p.unmount(oldCh[i])
		}
		return
	}

	// Unknown middle: [i..e1] old vs [i..e2] new.
	s1, s2 := i, i

	keyToNewIndex := make(map[string]int, e2-s2+1)
	for j := s2; j <= e2; j++ {
		if newCh[j].Key != "" {
			keyToNewIndex[newCh[j].Key] = j
		}
	}

	toBePatched := e2 - s2 + 1
	patched := 0
	// newIndexToOldIndex holds old position + 1 per new-middle slot; 0
	// means the slot has no old counterpart and must mount fresh.
	newIndexToOldIndex := make([]int, toBePatched)

	moved := false
	maxNewIndexSoFar := 0

	for j := s1; j <= e1; j++ {
		prev := oldCh[j]
		if patched >= toBePatched {
			p.unmount(prev)
			continue
		}
		newIndex := -1
		if prev.Key != "" {
			if idx, ok := keyToNewIndex[prev.Key]; ok {
				newIndex = idx
			}
		} else {
			// Keyless old node: claim the first unclaimed keyless match.
			for k := s2; k <= e2; k++ {
				if newIndexToOldIndex[k-s2] == 0 && sameVNode(prev, newCh[k]) {
					newIndex = k
					break
				}
			}
		}
		if newIndex < 0 {
			p.unmount(prev)
			continue
		}
		newIndexToOldIndex[newIndex-s2] = j + 1
		if newIndex >= maxNewIndexSoFar {
			maxNewIndexSoFar = newIndex
		} else {
			moved = true
		}
		p.patch(prev, newCh[newIndex], container, nil, parent)
		patched++
	}

	var lis []int
	if moved {
		lis = longestIncreasingSubsequence(newIndexToOldIndex)
	}

	// Walk backwards so every node's anchor is already in final position.
	lisTail := len(lis) - 1
	for j := toBePatched - 1; j >= 0; j-- {
		newIndex := s2 + j
		node := newCh[newIndex]
		var nextAnchor any = anchor
		if newIndex+1 < len(newCh) {
			nextAnchor = newCh[newIndex+1].HostNode()
		}
		if newIndexToOldIndex[j] == 0 {
			p.patch(nil, node, container, nextAnchor, parent)
			continue
		}
		if moved {
			if lisTail < 0 || j != lis[lisTail] {
				p.move(node, container, nextAnchor)
			} else {
				lisTail--
			}
		}
	}
}

// longestIncreasingSubsequence returns the indices of one longest strictly
// increasing run of the nonzero entries in arr. Zero entries mark fresh
// mounts and never participate.
func longestIncreasingSubsequence(arr []int) []int {
	// parent[k] chains each chosen index to its predecessor so the run can
	// be rebuilt after the scan.
	parent := make([]int, len(arr))
	// tails[l] is the index into arr of the smallest tail of any increasing
	// run of length l+1.
	tails := make([]int, 0, len(arr))

	for k, v := range arr {
		if v == 0 {
			continue
		}
		if len(tails) == 0 || arr[tails[len(tails)-1]] < v {
			if len(tails) > 0 {
				parent[k] = tails[len(tails)-1]
			} else {
				parent[k] = -1
			}
			tails = append(tails, k)
			continue
		}
		// Binary search for the leftmost tail >= v.
		lo, hi := 0, len(tails)-1
		for lo < hi {
			mid := (lo + hi) / 2
			if arr[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if arr[tails[lo]] > v {
			if lo > 0 {
				parent[k] = tails[lo-1]
			} else {
				parent[k] = -1
			}
			tails[lo] = k
		}
	}

	out := make([]int, len(tails))
	if len(tails) == 0 {
		return out
	}
	k := tails[len(tails)-1]
	for pos := len(tails) - 1; pos >= 0; pos-- {
		out[pos] = k
		k = parent[k]
	}
	return out
}
