package tableview

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is the mount point of a TableView:
// a detached HTML element node whose content
// is replaced or modified by the view.
type Element struct {
	node *html.Node
}

// NewElement returns an empty element with the passed tag name
// and an optional class attribute.
func NewElement(tagName, className string) *Element {
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     tagName,
		DataAtom: atom.Lookup([]byte(tagName)),
	}
	if className != "" {
		node.Attr = []html.Attribute{{Key: "class", Val: className}}
	}
	return &Element{node: node}
}

// Node returns the underlying element node.
func (e *Element) Node() *html.Node { return e.node }

// TagName returns the tag name of the element.
func (e *Element) TagName() string { return e.node.Data }

// ClassName returns the value of the class attribute.
func (e *Element) ClassName() string {
	for _, attr := range e.node.Attr {
		if attr.Key == "class" {
			return attr.Val
		}
	}
	return ""
}

// SetInnerHTML replaces the content of the element with markup
// parsed in the context of the element.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return err
	}
	for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
		e.node.RemoveChild(c)
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// InnerHTML renders the content of the element.
func (e *Element) InnerHTML() (string, error) {
	var b strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// OuterHTML renders the element including its own tag.
func (e *Element) OuterHTML() (string, error) {
	var b strings.Builder
	if err := html.Render(&b, e.node); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Find returns the first descendant element with tagName or nil.
func (e *Element) Find(tagName string) *html.Node {
	return findElement(e.node, tagName)
}

// FindAll returns all descendant elements with tagName in document order.
func (e *Element) FindAll(tagName string) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tagName {
				found = append(found, c)
			}
			walk(c)
		}
	}
	walk(e.node)
	return found
}

func findElement(n *html.Node, tagName string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tagName {
			return c
		}
		if found := findElement(c, tagName); found != nil {
			return found
		}
	}
	return nil
}

// appendHTML parses markup in the context of parent,
// appends the resulting nodes to parent and returns them.
func appendHTML(parent *html.Node, markup string) ([]*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nodes, nil
}

// elementChildren returns the element children of n.
func elementChildren(n *html.Node) []*html.Node {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, c)
		}
	}
	return children
}

func detach(nodes []*html.Node) {
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}
