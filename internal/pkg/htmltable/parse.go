// Package htmltable repairs HTML fragments whose table rows have lost their
// enclosing <table> element.
//
// Fragments are parsed with a tokenizer-driven tree builder rather than the
// HTML5 tree construction algorithm, which would drop <tr> and <td> tags found
// outside a table. Here they stay where they appear so Repair can find them.
package htmltable

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrTooLarge is returned when a fragment exceeds the configured size limit.
var ErrTooLarge = errors.New("htmltable: fragment too large")

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Source: true, atom.Track: true,
	atom.Wbr: true,
}

// parse builds a node tree from fragment. The returned node is a DocumentNode
// whose children are the top-level nodes of the fragment in source order.
//
// Unclosed elements are closed at the end of input and stray end tags are
// ignored. A new <td> or <th> closes an open cell, and a new <tr> closes open
// cells and rows up to the nearest table section.
func parse(fragment string, maxBuf int) (*html.Node, error) {
	z := html.NewTokenizer(strings.NewReader(fragment))
	if maxBuf > 0 {
		z.SetMaxBuf(maxBuf)
	}

	root := &html.Node{Type: html.DocumentNode}
	stack := []*html.Node{root}
	top := func() *html.Node { return stack[len(stack)-1] }

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				if errors.Is(err, html.ErrBufferExceeded) {
					return nil, ErrTooLarge
				}
				return nil, fmt.Errorf("htmltable: tokenize: %w", err)
			}
			return root, nil

		case html.TextToken:
			top().AppendChild(&html.Node{Type: html.TextNode, Data: string(z.Text())})

		case html.CommentToken:
			top().AppendChild(&html.Node{Type: html.CommentNode, Data: string(z.Text())})

		case html.StartTagToken, html.SelfClosingTagToken:
			n := element(z)
			switch n.DataAtom {
			case atom.Td, atom.Th:
				stack = closeOpen(stack, atom.Td, atom.Th)
			case atom.Tr:
				stack = closeOpen(stack, atom.Td, atom.Th, atom.Tr)
			}
			top().AppendChild(n)
			if tt == html.StartTagToken && !voidElements[n.DataAtom] {
				stack = append(stack, n)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Data == string(name) {
					stack = stack[:i]
					break
				}
			}

		case html.DoctypeToken:
			// fragments carry no document type
		}
	}
}

// closeOpen pops open elements while they are one of the given atoms.
func closeOpen(stack []*html.Node, open ...atom.Atom) []*html.Node {
	for len(stack) > 1 && slices.Contains(open, stack[len(stack)-1].DataAtom) {
		stack = stack[:len(stack)-1]
	}
	return stack
}

func element(z *html.Tokenizer) *html.Node {
	name, hasAttr := z.TagName()
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     string(name),
		DataAtom: atom.Lookup(name),
	}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		n.Attr = append(n.Attr, html.Attribute{Key: string(key), Val: string(val)})
	}
	return n
}
