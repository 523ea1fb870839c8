package resolver

import "sort"

// findCycles runs Tarjan's strongly connected components over the
// recipe -> sub-recipe graph and returns every recipe in a component of size
// > 1 or with a self edge. Sub-recipes not discovered yet are ignored.
func findCycles(states map[int]*State) []int {
	var (
		index   = make(map[int]int)
		lowlink = make(map[int]int)
		onStack = make(map[int]bool)
		stack   []int
		next    int
		cyclic  []int
	)

	var strongConnect func(v int)
	strongConnect = func(v int) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		selfLoop := false
		for _, w := range states[v].Recipe.SubRecipeIDs() {
			if _, known := states[w]; !known {
				continue
			}
			if w == v {
				selfLoop = true
			}
			if _, visited := index[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], index[w])
			}
		}

		if lowlink[v] != index[v] {
			return
		}
		var component []int
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		if len(component) > 1 || selfLoop {
			cyclic = append(cyclic, component...)
		}
	}

	ids := make([]int, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if _, visited := index[id]; !visited {
			strongConnect(id)
		}
	}
	sort.Ints(cyclic)
	return cyclic
}
