package matroska

import "testing"

func TestContainerAppendPromotesToList(t *testing.T) {
	c := newContainer()
	a := &Element{Name: "SimpleTag"}
	b := &Element{Name: "SimpleTag"}

	c.append("SimpleTag", a)
	if got := c.Element("SimpleTag"); got != a {
		t.Fatalf("single occurrence: Element = %v, want %v", got, a)
	}

	c.append("SimpleTag", b)
	all := c.All("SimpleTag")
	if len(all) != 2 || all[0] != a || all[1] != b {
		t.Fatalf("All(SimpleTag) = %v, want [%v %v]", all, a, b)
	}
	if got := c.Element("SimpleTag"); got != a {
		t.Errorf("Element after promotion = %v, want first occurrence %v", got, a)
	}
}

func TestContainerNamesPreservesOrder(t *testing.T) {
	c := newContainer()
	c.append("TrackNumber", &Element{Name: "TrackNumber"})
	c.append("TrackUID", &Element{Name: "TrackUID"})
	c.append("CodecID", &Element{Name: "CodecID"})

	want := []string{"TrackNumber", "TrackUID", "CodecID"}
	got := c.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestContainerSingleVsMultiGet(t *testing.T) {
	c := newContainer()
	c.append("Seek", &Element{Name: "Seek"})

	v, ok := c.Get("Seek")
	if !ok {
		t.Fatal("Get(Seek) reported not found")
	}
	if _, isSingle := v.(*Element); !isSingle {
		t.Errorf("Get(Seek) = %T, want *Element before a second occurrence", v)
	}

	c.append("Seek", &Element{Name: "Seek"})
	v, _ = c.Get("Seek")
	if _, isList := v.([]*Element); !isList {
		t.Errorf("Get(Seek) = %T, want []*Element after a second occurrence", v)
	}
}

func TestContainerNilSafety(t *testing.T) {
	var c *Container
	if v, ok := c.Get("x"); v != nil || ok {
		t.Error("Get on nil Container should return (nil, false)")
	}
	if c.Element("x") != nil {
		t.Error("Element on nil Container should return nil")
	}
	if c.All("x") != nil {
		t.Error("All on nil Container should return nil")
	}
	if c.Names() != nil {
		t.Error("Names on nil Container should return nil")
	}
	if c.Len() != 0 {
		t.Error("Len on nil Container should return 0")
	}
	if c.TracksOfType("Audio") != nil {
		t.Error("TracksOfType on nil Container should return nil")
	}
}

func TestContainerTrackIndex(t *testing.T) {
	c := newContainer()
	audio1 := &Element{Name: "TrackEntry"}
	video := &Element{Name: "TrackEntry"}
	audio2 := &Element{Name: "TrackEntry"}
	c.append("Audio", audio1)
	c.append("Video", video)
	c.append("Audio", audio2)

	if got := c.TracksOfType("Audio"); len(got) != 2 || got[0] != audio1 {
		t.Errorf("TracksOfType(Audio) = %v, want 2 entries starting with %v", got, audio1)
	}
	if got := c.TracksOfType("Video"); len(got) != 1 || got[0] != video {
		t.Errorf("TracksOfType(Video) = %v, want [%v]", got, video)
	}
	if got := c.TracksOfType("Subtitle"); got != nil {
		t.Errorf("TracksOfType(Subtitle) = %v, want nil", got)
	}
	if got := c.Element("Video"); got != video {
		t.Errorf("Element(Video) = %v, want %v", got, video)
	}
}

func TestElementContainerAccessor(t *testing.T) {
	c := newContainer()
	el := &Element{Name: "Info", Type: typeContainer, Value: c}
	if el.Container() != c {
		t.Error("Element.Container() should return the underlying *Container")
	}

	leaf := &Element{Name: "Title", Type: typeString, Value: "x"}
	if leaf.Container() != nil {
		t.Error("Container() on a non-container Element should return nil")
	}
}
