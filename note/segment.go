package note

import "strings"

// StartMarker is printed once on the first page of every note.
const StartMarker = "NOTA DE NEGOCIAÇÃO"

// Fragment is the text of one logical note, or of a part of it, together
// with the document it came from.
type Fragment struct {
	Text     string
	Document string
}

// Segment groups the pages of one document into fragments. A page carrying
// the start marker closes the fragment being accumulated and opens a new
// one. Every page lands in exactly one fragment; a document without any
// marker yields a single fragment with all of its text.
func Segment(document string, pages []string) []Fragment {
	var (
		out []Fragment
		buf strings.Builder
	)
	for _, page := range pages {
		if strings.Contains(page, StartMarker) && buf.Len() > 0 {
			out = append(out, Fragment{Text: buf.String(), Document: document})
			buf.Reset()
		}
		buf.WriteString(page)
	}
	if buf.Len() > 0 {
		out = append(out, Fragment{Text: buf.String(), Document: document})
	}
	return out
}
