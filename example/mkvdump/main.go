// Command mkvdump opens a Matroska/WebM file and prints its metadata tree:
// segment info, track list, chapters, and attachment names. It exercises
// Parse, Find, and attachment extraction -- the external surface
// spec §6 describes -- in place of the teacher's extracter demo, which
// decoded and re-muxed media frames (explicitly out of scope here).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/ebmlgo/matroska"
)

func main() {
	verbose := flag.Bool("v", false, "log parser diagnostics")
	extractDir := flag.String("extract", "", "directory to write attachments into")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mkvdump [-v] [-extract dir] <file.mkv>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *verbose, *extractDir); err != nil {
		log.Fatal(err)
	}
}

func run(path string, verbose bool, extractDir string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var logger *zap.Logger
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}

	doc, err := matroska.Parse(f, &matroska.Options{
		IncludeSections: []string{"*common*", "Attachments"},
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	printSummary(doc)

	if extractDir != "" {
		if err := extractAttachments(f, doc, extractDir); err != nil {
			return err
		}
	}

	if warn := doc.Warnings(); warn != nil {
		fmt.Fprintln(os.Stderr, "warnings:", warn)
	}
	return nil
}

func printSummary(doc *matroska.Document) {
	header := doc.Header()
	seg := doc.Segment()
	if header == nil || seg == nil {
		fmt.Println("no Segment found")
		return
	}

	hc := header.Container()
	fmt.Printf("DocType: %s (version %d)\n", hc.Element("DocType").String(), hc.Element("DocTypeVersion").Uint())

	sc := seg.Container()
	info := sc.Element("Info")
	if info != nil {
		ic := info.Container()
		fmt.Printf("Title: %q\n", ic.Element("Title").String())
		fmt.Printf("Duration: %v\n", ic.Element("Duration").Value)
		fmt.Printf("MuxingApp/WritingApp: %s / %s\n", ic.Element("MuxingApp").String(), ic.Element("WritingApp").String())
	}

	tracks := sc.Element("Tracks")
	if tracks != nil {
		tc := tracks.Container()
		for _, te := range tc.All("TrackEntry") {
			c := te.Container()
			kind := c.Element("TrackType").String()
			fmt.Printf("Track #%d [%s] %s lang=%s\n",
				c.Element("TrackNumber").Uint(), kind, c.Element("CodecID").String(), c.Element("Language").String())
		}
		if video := tc.TracksOfType("Video"); len(video) > 0 {
			fmt.Printf("%d video track(s)\n", len(video))
		}
	}

	if chapters := sc.Element("Chapters"); chapters != nil {
		titles, _ := matroska.Find(chapters, "^ChapString$")
		for _, t := range titles {
			fmt.Printf("Chapter: %s\n", t.String())
		}
	}

	for _, a := range doc.Attachments() {
		fmt.Printf("Attachment: %s (%s, %d bytes)\n", a.FileName, a.MimeType, a.Size())
	}
}

func extractAttachments(src *os.File, doc *matroska.Document, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, a := range doc.Attachments() {
		if a.FileName == "" {
			continue
		}
		out, err := os.Create(dir + "/" + a.FileName)
		if err != nil {
			return err
		}
		_, err = a.WriteTo(src, out)
		closeErr := out.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}
	}
	return nil
}
