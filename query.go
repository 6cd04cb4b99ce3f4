package matroska

import "regexp"

// Find returns every element under (and including) root whose Name matches
// pattern, in depth-first, insertion order. Grounded on spec §6's
// description alone -- the teacher never builds a name-indexed tree, so
// there's no existing find/closest surface to generalize from here, unlike
// most of the rest of this package.
func Find(root *Element, pattern string) ([]*Element, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	var out []*Element
	// A TrackEntry is reachable twice under Tracks (by "TrackEntry" and by
	// its symbolic type key), so report each element only once.
	seen := make(map[*Element]bool)
	walkTree(root, func(e *Element) {
		if seen[e] {
			return
		}
		seen[e] = true
		if re.MatchString(e.Name) {
			out = append(out, e)
		}
	})
	return out, nil
}

// Closest returns the element whose Name matches pattern with the fewest
// tree edges from from (walking both toward children and toward the
// parent), or nil if nothing in the document matches. Ties are broken by
// BFS visitation order, which favors elements closer to from along the
// parent chain before descending into siblings' subtrees.
func Closest(from *Element, pattern string) (*Element, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return closestMatch(from, re), nil
}

func walkTree(e *Element, visit func(*Element)) {
	if e == nil {
		return
	}
	visit(e)
	c := e.Container()
	if c == nil {
		return
	}
	for _, name := range c.Names() {
		for _, child := range c.All(name) {
			walkTree(child, visit)
		}
	}
}

func closestMatch(from *Element, re *regexp.Regexp) *Element {
	if from == nil {
		return nil
	}
	visited := map[*Element]bool{from: true}
	queue := []*Element{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur != from && re.MatchString(cur.Name) {
			return cur
		}
		for _, n := range treeNeighbors(cur) {
			if n != nil && !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return nil
}

func treeNeighbors(e *Element) []*Element {
	var out []*Element
	if e.parent != nil {
		out = append(out, e.parent)
	}
	if c := e.Container(); c != nil {
		for _, name := range c.Names() {
			out = append(out, c.All(name)...)
		}
	}
	return out
}
