package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextRenderer writes the document as Markdown-flavoured plain text.
type TextRenderer struct{}

func (TextRenderer) Extension() string { return "md" }

func (TextRenderer) Render(doc Document, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", doc.Title)
	for _, section := range doc.Sections {
		fmt.Fprintf(bw, "\n## %s\n\n", section.Heading)
		if len(section.Entries) == 0 {
			fmt.Fprintf(bw, "%s\n", section.Empty)
			continue
		}
		for _, entry := range section.Entries {
			parts := make([]string, 0, len(entry.Fields))
			for _, f := range entry.Fields {
				parts = append(parts, fmt.Sprintf("%s: %s", f.Label, f.Value))
			}
			fmt.Fprintf(bw, "- %s | %s\n", entry.Headline, strings.Join(parts, " | "))
		}
	}

	return bw.Flush()
}
