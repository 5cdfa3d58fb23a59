// Package emitter builds indented C source text from a tree of statements,
// brace scopes and preprocessor conditionals.
//
// Trees are built with chained calls:
//
//	emitter.New().
//		Statement("int main()").
//		Scope(emitter.New().Statement("return 0;"))
package emitter

import (
	"bufio"
	"io"
	"strings"

	"cogentcore.org/core/base/indent"
)

// IndentWidth is the number of spaces per indentation level.
const IndentWidth = 4

// Kind is the type of a Node.
type Kind int

const (
	// KindStatement is a single line written verbatim.
	KindStatement Kind = iota

	// KindScope wraps its child in braces, one level deeper.
	KindScope

	// KindIfDef wraps its child in #ifdef / #endif at the same level.
	KindIfDef

	// KindIfNotDef wraps its child in #ifndef / #endif at the same level.
	KindIfNotDef
)

// Node is one element of a Tree. Text is the statement for KindStatement
// and the macro name for the conditionals.
type Node struct {
	Kind  Kind
	Text  string
	Child *Tree
}

// Tree is an ordered list of nodes. The zero value is an empty tree.
type Tree struct {
	Nodes []Node
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

func (t *Tree) add(n Node) *Tree {
	t.Nodes = append(t.Nodes, n)
	return t
}

// Statement appends a single line.
func (t *Tree) Statement(text string) *Tree {
	return t.add(Node{Kind: KindStatement, Text: text})
}

// Statements appends one statement per entry.
func (t *Tree) Statements(texts ...string) *Tree {
	for _, text := range texts {
		t.Statement(text)
	}
	return t
}

// EmptyLine appends an empty statement. Empty lines are never indented.
func (t *Tree) EmptyLine() *Tree {
	return t.Statement("")
}

// Inline renders child at depth zero and appends the text as a single
// statement. Only the first line of the block picks up the indentation of
// the position it is rendered at.
func (t *Tree) Inline(child *Tree) *Tree {
	return t.Statement(strings.TrimSuffix(child.Render(0), "\n"))
}

// Scope appends child wrapped in braces.
func (t *Tree) Scope(child *Tree) *Tree {
	return t.add(Node{Kind: KindScope, Child: child})
}

// IfDef appends child wrapped in #ifdef macro.
func (t *Tree) IfDef(macro string, child *Tree) *Tree {
	return t.add(Node{Kind: KindIfDef, Text: macro, Child: child})
}

// IfNotDef appends child wrapped in #ifndef macro.
func (t *Tree) IfNotDef(macro string, child *Tree) *Tree {
	return t.add(Node{Kind: KindIfNotDef, Text: macro, Child: child})
}

// Render returns the tree as text, starting at the given depth.
func (t *Tree) Render(depth int) string {
	var sb strings.Builder
	// strings.Builder never fails
	_ = t.Write(&sb, depth)
	return sb.String()
}

// WriteTo writes the tree at depth zero. It implements io.WriterTo.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := t.Write(cw, 0)
	return cw.n, err
}

// Write writes the tree to w, starting at the given depth.
func (t *Tree) Write(w io.Writer, depth int) error {
	bw := bufio.NewWriter(w)
	if err := t.write(bw, depth); err != nil {
		return err
	}
	return bw.Flush()
}

func (t *Tree) write(w *bufio.Writer, depth int) error {
	if t == nil {
		return nil
	}

	pad := indent.Spaces(depth, IndentWidth)
	line := func(s string) error {
		if s == "" {
			return w.WriteByte('\n')
		}
		if _, err := w.WriteString(pad); err != nil {
			return err
		}
		if _, err := w.WriteString(s); err != nil {
			return err
		}
		return w.WriteByte('\n')
	}

	for _, n := range t.Nodes {
		var err error
		switch n.Kind {
		case KindStatement:
			err = line(n.Text)
		case KindScope:
			if err = line("{"); err != nil {
				return err
			}
			if err = n.Child.write(w, depth+1); err != nil {
				return err
			}
			err = line("}")
		case KindIfDef, KindIfNotDef:
			directive := "#ifdef "
			if n.Kind == KindIfNotDef {
				directive = "#ifndef "
			}
			if err = line(directive + n.Text); err != nil {
				return err
			}
			if err = n.Child.write(w, depth); err != nil {
				return err
			}
			err = line("#endif // " + n.Text)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
