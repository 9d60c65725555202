package block

import (
	"fmt"
	"strings"
)

// Content is the value accepted at the construction boundary of a Block.
// It is one of Line, *Block or Seq.
type Content interface {
	content()
}

// Line is a single literal line of text. It must not contain a newline.
type Line string

// Seq is an ordered list of lines and blocks. It is only accepted by New,
// a Seq can not be nested in another Seq or appended to a block.
type Seq []Content

func (Line) content()   {}
func (Seq) content()    {}
func (*Block) content() {}

// Lines returns a Seq holding one Line per string.
func Lines(ss ...string) Seq {
	seq := make(Seq, len(ss))
	for i, s := range ss {
		seq[i] = Line(s)
	}
	return seq
}

// Block is a node of a rendering tree. Its children are literal lines or
// nested blocks, rendered in insertion order. A Block is built by a single
// owner and must not be mutated while it is being rendered.
type Block struct {
	children []Content // Line or *Block.

	indent      int
	prefix      *string
	suffix      *string
	firstPrefix *string
	firstIndent *int
	lastSuffix  *string
}

// New creates a block seeded with content and configured with opts.
// A nil content creates an empty block. When content is a *Block, its
// children are copied into the new block.
func New(content Content, opts ...Option) (*Block, error) {
	b := &Block{}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	switch c := content.(type) {
	case nil:
	case Line:
		if err := checkLine(c); err != nil {
			return nil, err
		}
		b.children = []Content{c}
	case *Block:
		if c == nil {
			return nil, &InvalidContentError{Value: c, Reason: "nil block"}
		}
		b.children = append([]Content(nil), c.children...)
	case Seq:
		children := make([]Content, 0, len(c))
		for _, child := range c {
			if err := b.check(child); err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		b.children = children
	default:
		return nil, &InvalidContentError{Value: content}
	}
	return b, nil
}

// MustNew is like New but panics on error.
func MustNew(content Content, opts ...Option) *Block {
	b, err := New(content, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// Append adds a line or a nested block at the end of the children list.
// Nothing is appended if c is rejected.
func (b *Block) Append(c Content) error {
	if err := b.check(c); err != nil {
		return err
	}
	b.children = append(b.children, c)
	return nil
}

// Add is the chaining form of Append. It panics if c is rejected.
func (b *Block) Add(c Content) *Block {
	if err := b.Append(c); err != nil {
		panic(err)
	}
	return b
}

// Addf appends a formatted line.
func (b *Block) Addf(format string, args ...any) *Block {
	return b.Add(Line(fmt.Sprintf(format, args...)))
}

// Len returns the number of direct children of the block.
func (b *Block) Len() int {
	return len(b.children)
}

// check validates a single child: a line without newlines, or a non-nil
// block that does not contain b.
func (b *Block) check(c Content) error {
	switch c := c.(type) {
	case Line:
		return checkLine(c)
	case *Block:
		if c == nil {
			return &InvalidContentError{Value: c, Reason: "nil block"}
		}
		if c.contains(b) {
			return &InvalidContentError{Value: c, Reason: "block would contain itself"}
		}
		return nil
	case nil:
		return &InvalidContentError{Reason: "nil content"}
	case Seq:
		return &InvalidContentError{Value: c, Reason: "sequence is not a single child"}
	default:
		return &InvalidContentError{Value: c}
	}
}

// contains reports whether target is b or one of its descendants.
func (b *Block) contains(target *Block) bool {
	if b == target {
		return true
	}
	for _, c := range b.children {
		if child, ok := c.(*Block); ok && child.contains(target) {
			return true
		}
	}
	return false
}

func checkLine(l Line) error {
	if strings.ContainsAny(string(l), "\r\n") {
		return &InvalidContentError{Value: l, Reason: "line contains a newline"}
	}
	return nil
}

// Lines renders the block into its lines. Children are rendered first and
// the block formatting is applied to the flattened result: the first line
// takes the first indent and prefix, the last line takes the last suffix,
// every other line takes the common ones. A single line is both first and
// last. An empty block renders no lines.
func (b *Block) Lines() []string {
	var flat []string
	for _, c := range b.children {
		switch c := c.(type) {
		case Line:
			flat = append(flat, string(c))
		case *Block:
			flat = append(flat, c.Lines()...)
		}
	}
	n := len(flat)
	if n == 0 {
		return nil
	}
	var (
		prefix      = deref(b.prefix, "")
		suffix      = deref(b.suffix, "")
		firstPrefix = deref(b.firstPrefix, prefix)
		lastSuffix  = deref(b.lastSuffix, suffix)
		firstIndent = b.indent
	)
	if b.firstIndent != nil {
		firstIndent = *b.firstIndent
	}
	padding := strings.Repeat(" ", b.indent)
	lines := make([]string, n)
	for i, line := range flat {
		pad, pre, suf := padding, prefix, suffix
		if i == 0 {
			pad, pre = strings.Repeat(" ", firstIndent), firstPrefix
		}
		if i == n-1 {
			suf = lastSuffix
		}
		lines[i] = pad + pre + line + suf
	}
	return lines
}

// String joins the rendered lines with newlines. There is no newline after
// the last line and no formatting beyond what Lines applies.
func (b *Block) String() string {
	return strings.Join(b.Lines(), "\n")
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
