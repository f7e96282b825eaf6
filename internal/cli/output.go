package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"thinktank/internal/models"
)

type printer struct {
	w    io.Writer
	json bool
}

// emit writes v as indented JSON, or calls text for the human format.
func (p printer) emit(v interface{}, text func(w io.Writer)) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(p.w)
	return nil
}

func (p printer) message(msg string) error {
	return p.emit(map[string]string{"message": msg}, func(w io.Writer) {
		fmt.Fprintln(w, msg)
	})
}

func writeIdeas(w io.Writer, ideas []models.Idea) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tTAGS\tFEEDBACK")
	for _, idea := range ideas {
		feedback := "-"
		if f := idea.LatestFeedback(); f != nil {
			feedback = string(f.Status)
			if f.Comment != "" {
				feedback += ": " + f.Comment
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			idea.ID, idea.CurrentStatus(), idea.Title, strings.Join(idea.Tags, ","), feedback)
	}
	tw.Flush()
}

func writeSection(w io.Writer, title string, ideas []models.Idea) {
	fmt.Fprintf(w, "%s (%d)\n", title, len(ideas))
	if len(ideas) > 0 {
		writeIdeas(w, ideas)
	}
	fmt.Fprintln(w)
}
