package block

// FromValue converts a loosely typed value, such as one decoded from a
// configuration file, into block content. Accepted shapes are nil, a
// string, a list of strings, a *Block, any Content, and a list mixing
// strings and blocks. Anything else is an InvalidContentError.
func FromValue(v any) (Content, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case Content:
		return v, nil
	case string:
		return Line(v), nil
	case []string:
		return Lines(v...), nil
	case []any:
		seq := make(Seq, 0, len(v))
		for _, e := range v {
			switch e := e.(type) {
			case string:
				seq = append(seq, Line(e))
			case Line:
				seq = append(seq, e)
			case *Block:
				seq = append(seq, e)
			default:
				return nil, &InvalidContentError{Value: e, Reason: "list element is not a line or a block"}
			}
		}
		return seq, nil
	default:
		return nil, &InvalidContentError{Value: v}
	}
}
