package lispy

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/tinylib/msgp/msgp"
)

// An Image is a snapshot of the user's global bindings. Builtins that
// are still bound under their own name are left out; everything else,
// closures and their partially bound arguments included, is kept.
type Image struct {
	Version  int64
	Bindings []*ImageBinding
}

type ImageBinding struct {
	Name string
	Val  *ImageValue
}

// ImageValue mirrors a Sexp. Text holds the number, string, symbol,
// error message or builtin name; Items holds list children, or the
// formals and body of a lambda, whose bound arguments are in Scope.
type ImageValue struct {
	Kind  string
	Text  string
	Items []*ImageValue
	Scope []*ImageBinding
}

const ImageVersion = 1

const (
	imgNumber  = "number"
	imgString  = "string"
	imgSymbol  = "symbol"
	imgError   = "error"
	imgSexpr   = "sexpr"
	imgQexpr   = "qexpr"
	imgBuiltin = "builtin"
	imgLambda  = "lambda"
)

// CaptureImage snapshots env's global scope.
func CaptureImage(env *Lispy) *Image {
	img := &Image{Version: ImageVersion}
	for _, name := range env.global.SortedNames() {
		val := env.global.Map[name]
		if f, isFn := val.(*SexpFunction); isFn && f.IsBuiltin() && f.name == name {
			if _, installed := env.builtins[name]; installed {
				continue
			}
		}
		img.Bindings = append(img.Bindings, &ImageBinding{Name: name, Val: EncodeImageValue(val)})
	}
	return img
}

func EncodeImageValue(x Sexp) *ImageValue {
	switch e := x.(type) {
	case *SexpNum:
		return &ImageValue{Kind: imgNumber, Text: strconv.FormatInt(e.Val, 10)}
	case *SexpStr:
		return &ImageValue{Kind: imgString, Text: e.S}
	case *SexpSymbol:
		return &ImageValue{Kind: imgSymbol, Text: e.name}
	case *SexpError:
		return &ImageValue{Kind: imgError, Text: e.Msg}
	case *SexpSexpr:
		return &ImageValue{Kind: imgSexpr, Items: encodeItems(e.Val)}
	case *SexpQexpr:
		return &ImageValue{Kind: imgQexpr, Items: encodeItems(e.Val)}
	case *SexpFunction:
		if e.IsBuiltin() {
			return &ImageValue{Kind: imgBuiltin, Text: e.name}
		}
		iv := &ImageValue{
			Kind:  imgLambda,
			Items: []*ImageValue{EncodeImageValue(e.formals), EncodeImageValue(e.body)},
		}
		for _, name := range e.scope.SortedNames() {
			iv.Scope = append(iv.Scope, &ImageBinding{Name: name, Val: EncodeImageValue(e.scope.Map[name])})
		}
		return iv
	}
	panic(fmt.Sprintf("EncodeImageValue: unknown value type %T", x))
}

func encodeItems(xs []Sexp) []*ImageValue {
	items := make([]*ImageValue, len(xs))
	for i := range xs {
		items[i] = EncodeImageValue(xs[i])
	}
	return items
}

// Decode rebuilds the value. Builtins are looked up among those
// installed in env.
func (iv *ImageValue) Decode(env *Lispy) (Sexp, error) {
	switch iv.Kind {
	case imgNumber:
		n, err := strconv.ParseInt(iv.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("image: bad number '%s'", iv.Text)
		}
		return MakeNum(n), nil
	case imgString:
		return MakeStr(iv.Text), nil
	case imgSymbol:
		return MakeSym(iv.Text), nil
	case imgError:
		return &SexpError{Msg: iv.Text}, nil
	case imgSexpr, imgQexpr:
		xs, err := decodeItems(env, iv.Items)
		if err != nil {
			return nil, err
		}
		if iv.Kind == imgSexpr {
			return MakeSexpr(xs...), nil
		}
		return MakeQexpr(xs...), nil
	case imgBuiltin:
		f, ok := env.builtins[iv.Text]
		if !ok {
			return nil, fmt.Errorf("image: builtin '%s' is not available", iv.Text)
		}
		return f, nil
	case imgLambda:
		if len(iv.Items) != 2 {
			return nil, fmt.Errorf("image: lambda needs formals and body, got %d items", len(iv.Items))
		}
		parts, err := decodeItems(env, iv.Items)
		if err != nil {
			return nil, err
		}
		formals, ok1 := parts[0].(*SexpQexpr)
		body, ok2 := parts[1].(*SexpQexpr)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("image: lambda formals and body must be Q-expressions")
		}
		f := MakeLambda(formals, body)
		for _, b := range iv.Scope {
			v, err := b.Val.Decode(env)
			if err != nil {
				return nil, err
			}
			f.scope.Map[b.Name] = v
		}
		return f, nil
	}
	return nil, fmt.Errorf("image: unknown kind '%s'", iv.Kind)
}

func decodeItems(env *Lispy, items []*ImageValue) ([]Sexp, error) {
	xs := make([]Sexp, len(items))
	for i, it := range items {
		x, err := it.Decode(env)
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}
	return xs, nil
}

// Install binds every entry of img into env's global scope. Nothing is
// bound unless every entry decodes.
func (img *Image) Install(env *Lispy) error {
	if img.Version != ImageVersion {
		return fmt.Errorf("image: version %d not supported", img.Version)
	}
	vals := make([]Sexp, len(img.Bindings))
	for i, b := range img.Bindings {
		v, err := b.Val.Decode(env)
		if err != nil {
			return fmt.Errorf("image: binding '%s': %w", b.Name, err)
		}
		vals[i] = v
	}
	for i, b := range img.Bindings {
		env.global.Map[b.Name] = vals[i]
	}
	return nil
}

func (img *Image) Names() []string {
	names := make([]string, len(img.Bindings))
	for i, b := range img.Bindings {
		names[i] = b.Name
	}
	sort.Strings(names)
	return names
}

// MarshalMsg appends the msgpack form of img to b.
func (img *Image) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 2)
	b = msgp.AppendString(b, "version")
	b = msgp.AppendInt64(b, img.Version)
	b = msgp.AppendString(b, "bindings")
	return appendBindings(b, img.Bindings), nil
}

func appendBindings(b []byte, bs []*ImageBinding) []byte {
	b = msgp.AppendArrayHeader(b, uint32(len(bs)))
	for _, bind := range bs {
		b = msgp.AppendMapHeader(b, 2)
		b = msgp.AppendString(b, "n")
		b = msgp.AppendString(b, bind.Name)
		b = msgp.AppendString(b, "v")
		b = appendValue(b, bind.Val)
	}
	return b
}

func appendValue(b []byte, iv *ImageValue) []byte {
	b = msgp.AppendMapHeader(b, 4)
	b = msgp.AppendString(b, "k")
	b = msgp.AppendString(b, iv.Kind)
	b = msgp.AppendString(b, "t")
	b = msgp.AppendString(b, iv.Text)
	b = msgp.AppendString(b, "i")
	b = msgp.AppendArrayHeader(b, uint32(len(iv.Items)))
	for _, it := range iv.Items {
		b = appendValue(b, it)
	}
	b = msgp.AppendString(b, "s")
	return appendBindings(b, iv.Scope)
}

// UnmarshalMsg decodes img from bts and returns the bytes left over.
// Unknown keys are skipped.
func (img *Image) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var sz uint32
	sz, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return bts, err
	}
	for ; sz > 0; sz-- {
		var key []byte
		key, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return bts, err
		}
		switch string(key) {
		case "version":
			img.Version, bts, err = msgp.ReadInt64Bytes(bts)
		case "bindings":
			img.Bindings, bts, err = readBindingsBytes(bts)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return bts, err
		}
	}
	return bts, nil
}

func readBindingsBytes(bts []byte) ([]*ImageBinding, []byte, error) {
	n, bts, err := msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return nil, bts, err
	}
	var bs []*ImageBinding
	for ; n > 0; n-- {
		bind := &ImageBinding{}
		var sz uint32
		sz, bts, err = msgp.ReadMapHeaderBytes(bts)
		if err != nil {
			return nil, bts, err
		}
		for ; sz > 0; sz-- {
			var key []byte
			key, bts, err = msgp.ReadMapKeyZC(bts)
			if err != nil {
				return nil, bts, err
			}
			switch string(key) {
			case "n":
				bind.Name, bts, err = msgp.ReadStringBytes(bts)
			case "v":
				bind.Val, bts, err = readValueBytes(bts)
			default:
				bts, err = msgp.Skip(bts)
			}
			if err != nil {
				return nil, bts, err
			}
		}
		if bind.Val == nil {
			return nil, bts, fmt.Errorf("image: binding '%s' has no value", bind.Name)
		}
		bs = append(bs, bind)
	}
	return bs, bts, nil
}

func readValueBytes(bts []byte) (*ImageValue, []byte, error) {
	sz, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return nil, bts, err
	}
	iv := &ImageValue{}
	for ; sz > 0; sz-- {
		var key []byte
		key, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return nil, bts, err
		}
		switch string(key) {
		case "k":
			iv.Kind, bts, err = msgp.ReadStringBytes(bts)
		case "t":
			iv.Text, bts, err = msgp.ReadStringBytes(bts)
		case "i":
			var n uint32
			n, bts, err = msgp.ReadArrayHeaderBytes(bts)
			for ; err == nil && n > 0; n-- {
				var it *ImageValue
				it, bts, err = readValueBytes(bts)
				iv.Items = append(iv.Items, it)
			}
		case "s":
			iv.Scope, bts, err = readBindingsBytes(bts)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return nil, bts, err
		}
	}
	return iv, bts, nil
}
