package matroska

import "testing"

func TestContainerSchemaResolveHit(t *testing.T) {
	e, ok := csInfo.resolve(idTimecodeScale)
	if !ok {
		t.Fatal("expected idTimecodeScale to resolve under Info")
	}
	if e.Name != "TimecodeScale" {
		t.Errorf("Name = %q, want TimecodeScale", e.Name)
	}
	if e.Default != uint64(1000000) {
		t.Errorf("Default = %v, want 1000000", e.Default)
	}
}

func TestContainerSchemaResolveGlobalFallback(t *testing.T) {
	e, ok := csTrackEntry.resolve(idVoid)
	if !ok {
		t.Fatal("expected Void to resolve via the global fallback")
	}
	if !e.Global {
		t.Error("resolved Void entry should be marked Global")
	}
}

func TestContainerSchemaResolveMiss(t *testing.T) {
	// An ID that exists in the graph but isn't legal as a direct child of
	// EBMLHeader (e.g. Segment's own ID) should miss outright.
	if _, ok := csEBMLHeader.resolve(idSegment); ok {
		t.Error("idSegment should not resolve under EBMLHeader")
	}
}

func TestContainerSchemaResolveCachesNegative(t *testing.T) {
	const bogus = uint32(0x7F7F7F7F)
	if _, ok := csEBMLHeader.resolve(bogus); ok {
		t.Fatal("bogus id unexpectedly resolved")
	}
	// Second lookup should hit the cached nil rather than panic or differ.
	if _, ok := csEBMLHeader.resolve(bogus); ok {
		t.Fatal("bogus id resolved on second (cached) lookup")
	}
}

func TestChapterAtomRecursiveNesting(t *testing.T) {
	e, ok := csChapterAtom.resolve(idChapterAtom)
	if !ok {
		t.Fatal("ChapterAtom should resolve as its own child")
	}
	if !e.RecursiveNesting {
		t.Error("ChapterAtom self-entry should be marked RecursiveNesting")
	}
	if e.Children != csChapterAtom {
		t.Error("ChapterAtom self-entry's Children should point back at csChapterAtom")
	}
}

func TestSimpleTagRecursiveNesting(t *testing.T) {
	e, ok := csSimpleTag.resolve(idSimpleTag)
	if !ok {
		t.Fatal("SimpleTag should resolve as its own child")
	}
	if !e.RecursiveNesting {
		t.Error("SimpleTag self-entry should be marked RecursiveNesting")
	}
}

func TestTrackTypeFixedSize(t *testing.T) {
	e, ok := csTrackEntry.resolve(idTrackType)
	if !ok {
		t.Fatal("TrackType should resolve under TrackEntry")
	}
	if e.FixedSize != 1 {
		t.Errorf("TrackType.FixedSize = %d, want 1", e.FixedSize)
	}
}
