package matroska

// Container holds the children of a container Element (spec §3/§4.6). It
// behaves like an ordered map keyed by element name: a name seen once maps
// to a single *Element, and a name seen again is promoted in place to
// []*Element -- the promotion the teacher's `parseTracks`
// (`mp.tracks = append(mp.tracks, track)`) does implicitly for one
// particular element name, generalized here to any child name that occurs
// more than once (the schema's Multi flag is not consulted).
type Container struct {
	order  []string
	values map[string]any
}

func newContainer() *Container {
	return &Container{values: make(map[string]any)}
}

// append adds a child under name, promoting to a list on the second and
// later occurrence.
func (c *Container) append(name string, e *Element) {
	existing, seen := c.values[name]
	if !seen {
		c.values[name] = e
		c.order = append(c.order, name)
		return
	}
	switch v := existing.(type) {
	case *Element:
		c.values[name] = []*Element{v, e}
	case []*Element:
		c.values[name] = append(v, e)
	}
}

// Get returns the raw stored value for name: a *Element for a
// single-occurrence child, or []*Element once the name has repeated.
func (c *Container) Get(name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.values[name]
	return v, ok
}

// Element returns the first (or only) child named name, or nil if absent.
// Safe to call on a nil *Container.
func (c *Container) Element(name string) *Element {
	if c == nil {
		return nil
	}
	v, ok := c.values[name]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case *Element:
		return t
	case []*Element:
		if len(t) == 0 {
			return nil
		}
		return t[0]
	default:
		return nil
	}
}

// All normalizes the child(ren) named name into a slice, regardless of
// whether the element ever repeated. Safe to call on a nil *Container.
func (c *Container) All(name string) []*Element {
	if c == nil {
		return nil
	}
	v, ok := c.values[name]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case *Element:
		return []*Element{t}
	case []*Element:
		return t
	default:
		return nil
	}
}

// Names returns the distinct child names in first-seen order.
func (c *Container) Names() []string {
	if c == nil {
		return nil
	}
	return c.order
}

// Len returns the number of distinct child names (not counting repeats of
// the same name).
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// TracksOfType returns the TrackEntry elements of the given symbolic type
// ("Video", "Audio", "Subtitle", ...) when called on the Tracks container.
// cook.go's indexTrackEntry appends each TrackEntry into the Tracks
// container under its symbolic type key as well as under "TrackEntry", so
// this is just All(kind) spelled out for that use. Safe to call on a nil
// *Container.
func (c *Container) TracksOfType(kind string) []*Element {
	return c.All(kind)
}
