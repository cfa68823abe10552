package lispy

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/shurcooL/go-goon"
	"github.com/ugorji/go/codec"
)

/*
 Conversion map

 Go interface{}  <--(1)--> lisp
   ^
   |
  (2)
   |
   V
 json / msgpack

(1) SexpToGo() and GoToSexp() herein. Numbers become int64,
    strings stay strings, symbols become their names, lists become
    []interface{}. Going back, a map becomes a Q-expression of
    {key value} pairs sorted by key.
(2) provided by ugorji/go/codec:
     JsonToGo() / GoToJson(), MsgpackToGo() / GoToMsgpack()
*/
func JsonFunction(name string) LispyUserFunction {
	var encode func(interface{}) ([]byte, error)
	var decode func([]byte) (interface{}, error)
	switch name {
	case "json":
		encode = GoToJson
	case "msgpack":
		encode = GoToMsgpack
	case "unjson":
		decode = JsonToGo
	case "unmsgpack":
		decode = MsgpackToGo
	default:
		panic(fmt.Sprintf("JsonFunction error: unrecognized function name: '%s'", name))
	}

	return func(env *Lispy, _ *Scope, _ string, args []Sexp) (Sexp, error) {
		if len(args) != 1 {
			return nil, wrongNargs(name, len(args), 1)
		}

		if encode != nil {
			by, err := encode(SexpToGo(args[0]))
			if err != nil {
				return nil, err
			}
			return MakeStr(string(by)), nil
		}

		str, isStr := args[0].(*SexpStr)
		if !isStr {
			return nil, typeMismatch(name, 0, args[0], StringTypeName)
		}
		iface, err := decode([]byte(str.S))
		if err != nil {
			return nil, fmt.Errorf("%s: %v", name, err)
		}
		return GoToSexp(iface)
	}
}

type msgpackHelper struct {
	initialized bool
	mh          codec.MsgpackHandle
	jh          codec.JsonHandle
}

func (m *msgpackHelper) init() {
	if m.initialized {
		return
	}

	m.mh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.mh.RawToString = true
	m.mh.WriteExt = true
	m.mh.SignedInteger = true
	m.mh.Canonical = true // sort maps before writing them

	// JSON
	m.jh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.jh.SignedInteger = true
	m.jh.Canonical = true // sort maps before writing them

	m.initialized = true
}

var msgpHelper msgpackHelper

func init() {
	msgpHelper.init()
}

// json -> go
func JsonToGo(json []byte) (interface{}, error) {
	var iface interface{}

	decoder := codec.NewDecoderBytes(json, &msgpHelper.jh)
	err := decoder.Decode(&iface)
	if err != nil {
		return nil, err
	}
	VPrintf("decoded json to %T\n", iface)
	return iface, nil
}

// go -> json
func GoToJson(iface interface{}) ([]byte, error) {
	var w bytes.Buffer
	encoder := codec.NewEncoder(&w, &msgpHelper.jh)
	err := encoder.Encode(&iface)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func GoToMsgpack(iface interface{}) ([]byte, error) {
	var w bytes.Buffer
	enc := codec.NewEncoder(&w, &msgpHelper.mh)
	err := enc.Encode(&iface)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// msgpack -> go
func MsgpackToGo(msgp []byte) (interface{}, error) {
	var iface interface{}
	dec := codec.NewDecoderBytes(msgp, &msgpHelper.mh)
	err := dec.Decode(&iface)
	if err != nil {
		return nil, err
	}
	return iface, nil
}

// SexpToGo flattens x into plain Go values. Functions are rendered as
// their printed form; errors as {"error": message}.
func SexpToGo(x Sexp) interface{} {
	switch e := x.(type) {
	case *SexpNum:
		return e.Val
	case *SexpStr:
		return e.S
	case *SexpSymbol:
		return e.name
	case *SexpError:
		return map[string]interface{}{"error": e.Msg}
	case *SexpSexpr:
		return sliceToGo(e.Val)
	case *SexpQexpr:
		return sliceToGo(e.Val)
	}
	return x.SexpString()
}

func sliceToGo(xs []Sexp) []interface{} {
	r := make([]interface{}, len(xs))
	for i := range xs {
		r[i] = SexpToGo(xs[i])
	}
	return r
}

// GoToSexp converts decoded json or msgpack into a value.
func GoToSexp(iface interface{}) (Sexp, error) {
	switch v := iface.(type) {
	case nil:
		return MakeQexpr(), nil
	case bool:
		return BoolToNum(v), nil
	case int64:
		return MakeNum(v), nil
	case int:
		return MakeNum(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, ErrIntegerOverflow
		}
		return MakeNum(int64(v)), nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return nil, fmt.Errorf("cannot represent %v as a Number", v)
		}
		return MakeNum(int64(v)), nil
	case string:
		return MakeStr(v), nil
	case []byte:
		return MakeStr(string(v)), nil
	case []interface{}:
		xs := make([]Sexp, len(v))
		for i := range v {
			x, err := GoToSexp(v[i])
			if err != nil {
				return nil, err
			}
			xs[i] = x
		}
		return MakeQexpr(xs...), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := MakeQexpr()
		for _, k := range keys {
			x, err := GoToSexp(v[k])
			if err != nil {
				return nil, err
			}
			pairs.Append(MakeQexpr(MakeStr(k), x))
		}
		return pairs, nil
	}
	return nil, fmt.Errorf("cannot convert Go type %T to a value", iface)
}

func GoonDump(x Sexp) string {
	return goon.Sdump(x)
}

func GoonDumpFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return nil, wrongNargs(name, len(args), 1)
	}
	fmt.Fprint(env.Out, GoonDump(args[0]))
	return Unit(), nil
}
