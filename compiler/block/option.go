package block

// Option configures the formatting of a block.
type Option func(*Block) error

// Indent sets the number of spaces put in front of every rendered line.
func Indent(n int) Option {
	return func(b *Block) error {
		if n < 0 {
			return &InvalidFormatError{Option: "indent", Value: n}
		}
		b.indent = n
		return nil
	}
}

// FirstIndent overrides the indent of the first rendered line.
func FirstIndent(n int) Option {
	return func(b *Block) error {
		if n < 0 {
			return &InvalidFormatError{Option: "first indent", Value: n}
		}
		b.firstIndent = &n
		return nil
	}
}

// Prefix sets the text put after the indent of every rendered line.
func Prefix(s string) Option {
	return func(b *Block) error {
		b.prefix = &s
		return nil
	}
}

// FirstPrefix overrides the prefix of the first rendered line.
func FirstPrefix(s string) Option {
	return func(b *Block) error {
		b.firstPrefix = &s
		return nil
	}
}

// Suffix sets the text appended to every rendered line.
func Suffix(s string) Option {
	return func(b *Block) error {
		b.suffix = &s
		return nil
	}
}

// LastSuffix overrides the suffix of the last rendered line.
func LastSuffix(s string) Option {
	return func(b *Block) error {
		b.lastSuffix = &s
		return nil
	}
}
