// Package block provides the text model used by all emitters.
//
// A Block holds an ordered list of literal lines and nested blocks together
// with its own formatting: an indent, a prefix and a suffix for every line,
// and overrides for the first line (indent, prefix) and the last line
// (suffix). Rendering is bottom-up: a nested block is rendered with its own
// rules first, and the resulting lines are treated as plain lines by the
// parent, which then applies its own rules by position.
//
//	cond := block.MustNew(block.Lines("a", "b"),
//		block.FirstPrefix("if "),
//		block.Prefix("and "),
//		block.Suffix(" \\"),
//		block.LastSuffix(":"),
//	)
//	body := block.MustNew(block.Line("pass"), block.Indent(4))
//
//	b := block.MustNew(nil)
//	b.Add(cond).Add(body)
//
//	fmt.Println(b)
//	// if a \
//	// and b:
//	//     pass
//
// Blocks are built by a single owner and rendered once construction is
// finished. Rendering does not modify the tree.
package block
