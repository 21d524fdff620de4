package htmltable

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// placeholders mark empty answer cells in the source data.
var placeholders = map[string]bool{
	"":   true,
	"``": true,
	"''": true,
	`""`: true,
}

// Repairer rewraps orphan table rows. The zero value has no size limit.
type Repairer struct {
	// MaxBytes caps the fragment size and the tokenizer buffer.
	// Zero disables the cap.
	MaxBytes int
}

// Repair is (&Repairer{}).Repair.
func Repair(fragment string) (string, error) {
	return (&Repairer{}).Repair(fragment)
}

// Repair returns fragment with every <tr> inside a <table>.
//
// Tables containing a <th> are left as they are. In every other row, <td>
// cells whose trimmed text is empty or one of the placeholders (a pair of
// back-ticks, single quotes or double quotes) are removed. Rows with no
// enclosing table are then moved, each into its own new <table>, appended at
// the end of the fragment in document order. Rows left without cells are kept.
//
// Repairing an already repaired fragment does not change its structure.
func (r *Repairer) Repair(fragment string) (string, error) {
	if r.MaxBytes > 0 && len(fragment) > r.MaxBytes {
		return "", ErrTooLarge
	}
	if !strings.Contains(fragment, "<") {
		return fragment, nil
	}

	root, err := parse(fragment, r.MaxBytes)
	if err != nil {
		return "", err
	}

	prune, orphans := collect(root)

	for _, cell := range prune {
		cell.Parent.RemoveChild(cell)
	}
	for _, row := range orphans {
		row.Parent.RemoveChild(row)
		table := &html.Node{Type: html.ElementNode, Data: "table", DataAtom: atom.Table}
		table.AppendChild(row)
		root.AppendChild(table)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("htmltable: render: %w", err)
	}
	return buf.String(), nil
}

// collect walks every row once without touching the tree and returns the
// cells to remove and the rows to rewrap.
func collect(root *html.Node) (prune, orphans []*html.Node) {
	doc := goquery.NewDocumentFromNode(root)

	structured := make(map[*html.Node]bool)
	doc.Find("table").Each(func(_ int, t *goquery.Selection) {
		if t.Find("th").Length() > 0 {
			structured[t.Get(0)] = true
		}
	})

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		tables := row.ParentsFiltered("table")
		inStructured := false
		tables.Each(func(_ int, t *goquery.Selection) {
			if structured[t.Get(0)] {
				inStructured = true
			}
		})
		if inStructured {
			return
		}

		row.ChildrenFiltered("td").Each(func(_ int, cell *goquery.Selection) {
			if placeholders[strings.TrimSpace(cell.Text())] {
				prune = append(prune, cell.Get(0))
			}
		})

		if tables.Length() == 0 {
			orphans = append(orphans, row.Get(0))
		}
	})

	return prune, orphans
}
