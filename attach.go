package matroska

import (
	"fmt"
	"io"
)

// Attachment describes one AttachedFile entry. It carries the
// metadata eagerly but not the file payload itself -- FileData can be
// arbitrarily large (cover art is small, but nothing stops a muxer from
// attaching a font file or a subtitle archive), so the bytes are read on
// demand via WriteTo.
type Attachment struct {
	UID         uint64
	FileName    string
	MimeType    string
	Description string

	data *Element // the FileData leaf, for its DataPos/Size
}

// Attachments returns every AttachedFile under the document's first
// Segment, or nil if there are none (or Attachments wasn't in
// Options.IncludeSections and no SeekHead/tail-scan entry resolved it).
func (d *Document) Attachments() []Attachment {
	seg := d.Segment()
	if seg == nil {
		return nil
	}
	attachmentsEl := seg.Container().Element("Attachments")
	if attachmentsEl == nil {
		return nil
	}
	var out []Attachment
	for _, af := range attachmentsEl.Container().All("AttachedFile") {
		c := af.Container()
		out = append(out, Attachment{
			UID:         c.Element("FileUID").Uint(),
			FileName:    c.Element("FileName").String(),
			MimeType:    c.Element("FileMimeType").String(),
			Description: c.Element("FileDescription").String(),
			data:        c.Element("FileData"),
		})
	}
	return out
}

// Size returns the attachment's payload size in bytes, or 0 if it has no
// FileData (malformed input).
func (a Attachment) Size() int64 {
	if a.data == nil {
		return 0
	}
	return a.data.Size
}

// WriteTo copies the attachment's raw payload to w, seeking directly to
// FileData's DataPos on src rather than using the FileData Element's Value,
// so the whole payload is copied even when Options.BinarySizeLimit
// truncated the bytes held on the Element tree.
func (a Attachment) WriteTo(src io.ReadSeeker, w io.Writer) (int64, error) {
	if a.data == nil {
		return 0, fmt.Errorf("matroska: attachment %q has no FileData", a.FileName)
	}
	if _, err := src.Seek(a.data.DataPos, io.SeekStart); err != nil {
		return 0, err
	}
	return io.CopyN(w, src, a.data.Size)
}
