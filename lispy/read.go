package lispy

import (
	"strconv"
)

// ReadNode converts a parse tree into a value. Comments are dropped
// and the root becomes an S-expression of the top-level forms.
func ReadNode(n *Node) Sexp {
	switch n.Kind {
	case NodeNumber:
		v, err := strconv.ParseInt(n.Literal, 10, 64)
		if err != nil {
			return MakeErr(ErrInvalidNumber)
		}
		return MakeNum(v)
	case NodeSymbol:
		return MakeSym(n.Literal)
	case NodeString:
		lit := n.Literal
		if len(lit) >= 2 && lit[0] == '"' && lit[len(lit)-1] == '"' {
			lit = lit[1 : len(lit)-1]
		}
		return MakeStr(UnescapeString(lit))
	case NodeQexpr:
		return MakeQexpr(readChildren(n)...)
	case NodeSexpr, NodeRoot:
		return MakeSexpr(readChildren(n)...)
	}
	return nil
}

func readChildren(n *Node) []Sexp {
	xs := make([]Sexp, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Kind == NodeComment {
			continue
		}
		xs = append(xs, ReadNode(c))
	}
	return xs
}

// ReadString parses src with a fresh Parser and returns its top-level
// forms wrapped in one S-expression.
func ReadString(src string) (*SexpSexpr, error) {
	root, err := NewParser().Parse(src)
	if err != nil {
		return nil, err
	}
	return ReadNode(root).(*SexpSexpr), nil
}
