package matroska

import "testing"

func TestClassifySegmentChildDefaults(t *testing.T) {
	sc := newSelectiveController(&Options{}, newDiagnostics(nil))

	cases := map[string]readDecision{
		"SeekHead": decInclude,
		"Info":     decInclude,
		"Tracks":   decInclude,
		"Chapters": decInclude,
		"Cluster":  decStop,
		"Tags":     decDeferred,
		"Cues":     decDeferred,
	}
	for name, want := range cases {
		if got := sc.classifySegmentChild(name); got != want {
			t.Errorf("classifySegmentChild(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestClassifySegmentChildExplicitInclude(t *testing.T) {
	sc := newSelectiveController(&Options{IncludeSections: []string{"Tags"}}, newDiagnostics(nil))
	if got := sc.classifySegmentChild("Tags"); got != decInclude {
		t.Errorf("Tags = %v, want decInclude", got)
	}
	if got := sc.classifySegmentChild("Info"); got != decDeferred {
		t.Errorf("Info = %v, want decDeferred when not in IncludeSections", got)
	}
}

func TestClassifySegmentChildStarIncludesEverything(t *testing.T) {
	sc := newSelectiveController(&Options{IncludeSections: []string{"*"}}, newDiagnostics(nil))
	for _, name := range allSections {
		if got := sc.classifySegmentChild(name); got != decInclude {
			t.Errorf("%s = %v, want decInclude under \"*\"", name, got)
		}
	}
}

func TestClassifySegmentChildExhaustiveCluster(t *testing.T) {
	sc := newSelectiveController(&Options{ExhaustiveSearch: true}, newDiagnostics(nil))
	if got := sc.classifySegmentChild("Cluster"); got != decDeferred {
		t.Errorf("Cluster under ExhaustiveSearch = %v, want decDeferred", got)
	}
}

func TestWantedButMissing(t *testing.T) {
	sc := newSelectiveController(&Options{IncludeSections: []string{"*common*", "Tags"}}, newDiagnostics(nil))
	have := newContainer()
	have.append("Info", &Element{Name: "Info"})

	missing := sc.wantedButMissing(have)
	want := map[string]bool{"Tracks": true, "Chapters": true, "Attachments": true, "Tags": true}
	if len(missing) != len(want) {
		t.Fatalf("wantedButMissing = %v, want 4 entries", missing)
	}
	for _, m := range missing {
		if !want[m] {
			t.Errorf("unexpected missing entry %q", m)
		}
	}
}

func TestWantedButMissingExcludesClusterAndSeekHead(t *testing.T) {
	sc := newSelectiveController(&Options{IncludeSections: []string{"*"}}, newDiagnostics(nil))
	have := newContainer()
	missing := sc.wantedButMissing(have)
	for _, m := range missing {
		if m == "Cluster" || m == "SeekHead" {
			t.Errorf("wantedButMissing should never report %q", m)
		}
	}
}

func TestByteWindowReaderExhaustion(t *testing.T) {
	r := &byteWindowReader{data: []byte{0x01}}
	if _, err := r.ReadByte(); err != nil {
		t.Fatalf("first ReadByte: %v", err)
	}
	if _, err := r.ReadByte(); err == nil {
		t.Error("expected an error once the window is exhausted")
	}
}
