package matroska

import "testing"

func TestFindInvalidPattern(t *testing.T) {
	root := &Element{Name: "Segment"}
	if _, err := Find(root, "("); err == nil {
		t.Error("expected an error for an invalid regexp pattern")
	}
}

func TestFindNoMatches(t *testing.T) {
	root := &Element{Name: "Segment", Type: typeContainer, Value: newContainer()}
	got, err := Find(root, "^NoSuchElement$")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("Find with no matches = %v, want nil", got)
	}
}

func TestClosestNoMatch(t *testing.T) {
	root := &Element{Name: "Segment", Type: typeContainer, Value: newContainer()}
	got, err := Closest(root, "^NoSuchElement$")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("Closest with no matches = %v, want nil", got)
	}
}

func TestClosestPrefersParentOverDeeperSibling(t *testing.T) {
	// tree: root -> A -> B, root -> C -> Info (deeper), and root -> Info.
	// Starting from B, reaching root's Info only requires walking up
	// through A and root (no subtree descent needed), so it should be the
	// result rather than the Info nested one level deeper under sibling C.
	root := newContainer()
	rootEl := &Element{Name: "Segment", Type: typeContainer, Value: root}

	bContainer := newContainer()
	aEl := &Element{Name: "A", Type: typeContainer, Value: bContainer, parent: rootEl}
	bEl := &Element{Name: "B", parent: aEl}
	bContainer.append("B", bEl)

	cContainer := newContainer()
	cEl := &Element{Name: "C", Type: typeContainer, Value: cContainer, parent: rootEl}
	deeperInfoEl := &Element{Name: "Info", parent: cEl}
	cContainer.append("Info", deeperInfoEl)

	infoEl := &Element{Name: "Info", parent: rootEl}
	root.append("A", aEl)
	root.append("C", cEl)
	root.append("Info", infoEl)

	got, err := Closest(bEl, "^Info$")
	if err != nil {
		t.Fatal(err)
	}
	if got != infoEl {
		t.Errorf("Closest = %v, want %v", got, infoEl)
	}
}
