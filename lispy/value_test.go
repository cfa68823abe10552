package lispy

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test100CopyIsIndependent(t *testing.T) {

	cv.Convey(`Changing a copy of a nested list must leave the original alone`, t, func() {

		q := MakeQexpr(MakeNum(1), MakeQexpr(MakeNum(2), MakeStr("s")))
		c := Copy(q).(*SexpQexpr)
		c.Val[1].(*SexpQexpr).Val[0].(*SexpNum).Val = 99
		c.Append(MakeSym("extra"))

		cv.So(q.SexpString(), cv.ShouldEqual, `{1 {2 "s"}}`)
		cv.So(c.SexpString(), cv.ShouldEqual, `{1 {99 "s"} extra}`)
	})

	cv.Convey(`Copying a closure copies its captured bindings`, t, func() {

		f := MakeLambda(MakeQexpr(MakeSym("b")), MakeQexpr(MakeSym("a")))
		f.Scope().BindSymbol("a", MakeNum(1))
		g := f.Copy()
		g.Scope().BindSymbol("a", MakeNum(2))

		a, err := f.Scope().LookupSymbol("a")
		panicOn(err)
		cv.So(a, cv.ShouldResemble, MakeNum(1))
		cv.So(g.Formals() == f.Formals(), cv.ShouldBeFalse)
	})

	cv.Convey(`Builtins are copied by identity`, t, func() {
		env := NewLispy()
		plus, found := env.FindObject("+")
		cv.So(found, cv.ShouldBeTrue)
		cv.So(Copy(plus) == plus, cv.ShouldBeTrue)
	})
}

func Test101QuoteAndUnquoteRetagLists(t *testing.T) {

	cv.Convey(`Quote and Unquote change only the tag of a list`, t, func() {

		s := MakeSexpr(MakeSym("+"), MakeNum(1), MakeNum(2))
		q := s.Quote()
		cv.So(q.SexpString(), cv.ShouldEqual, "{+ 1 2}")
		cv.So(q.Unquote().SexpString(), cv.ShouldEqual, "(+ 1 2)")
		cv.So(Equal(q.Unquote(), s), cv.ShouldBeTrue)
		cv.So(Equal(q, s), cv.ShouldBeFalse)
	})
}

func Test102StructuralEquality(t *testing.T) {

	cv.Convey(`Equal compares by type and contents`, t, func() {

		cv.So(Equal(MakeNum(3), MakeNum(3)), cv.ShouldBeTrue)
		cv.So(Equal(MakeNum(3), MakeStr("3")), cv.ShouldBeFalse)
		cv.So(Equal(MakeSym("x"), MakeSym("x")), cv.ShouldBeTrue)
		cv.So(Equal(MakeQexpr(), MakeQexpr()), cv.ShouldBeTrue)
		cv.So(Equal(MakeQexpr(MakeNum(1)), MakeQexpr(MakeNum(1), MakeNum(2))), cv.ShouldBeFalse)
		cv.So(Equal(MakeErrf("boom"), MakeErrf("boom")), cv.ShouldBeTrue)

		one := MakeLambda(MakeQexpr(MakeSym("x")), MakeQexpr(MakeSym("x")))
		two := MakeLambda(MakeQexpr(MakeSym("x")), MakeQexpr(MakeSym("x")))
		two.Scope().BindSymbol("unused", MakeNum(5))
		cv.So(Equal(one, two), cv.ShouldBeTrue)
	})
}

func Test103PrintedForms(t *testing.T) {

	cv.Convey(`Each kind of value prints the way the reader would accept it back`, t, func() {

		cv.So(MakeNum(-12).SexpString(), cv.ShouldEqual, "-12")
		cv.So(MakeStr("hi\n").SexpString(), cv.ShouldEqual, `"hi\n"`)
		cv.So(MakeErrf("bad %d", 1).SexpString(), cv.ShouldEqual, "Error: bad 1")
		cv.So(Unit().SexpString(), cv.ShouldEqual, "()")
		cv.So(MakeQexpr(MakeSexpr(), MakeQexpr()).SexpString(), cv.ShouldEqual, "{() {}}")

		f := MakeLambda(MakeQexpr(MakeSym("x"), MakeSym("y")), MakeQexpr(MakeSym("+"), MakeSym("x"), MakeSym("y")))
		cv.So(f.SexpString(), cv.ShouldEqual, `(\ {x y} {+ x y})`)

		env := NewLispy()
		plus, _ := env.FindObject("+")
		cv.So(plus.SexpString(), cv.ShouldEqual, "<builtin>")
		cv.So(plus.TypeName(), cv.ShouldEqual, FunctionTypeName)
	})
}

func Test110ScopeLookupWalksParents(t *testing.T) {

	cv.Convey(`Lookups should search the scope and then its parents, nearest first`, t, func() {

		global := NewNamedScope("global")
		global.BindSymbol("x", MakeNum(1))
		global.BindSymbol("y", MakeNum(2))

		local := NewScope()
		local.Parent = global
		local.BindSymbol("x", MakeNum(10))

		x, err := local.LookupSymbol("x")
		panicOn(err)
		cv.So(x, cv.ShouldResemble, MakeNum(10))

		y, err := local.LookupSymbol("y")
		panicOn(err)
		cv.So(y, cv.ShouldResemble, MakeNum(2))

		_, err = local.LookupSymbol("nope")
		cv.So(err.Error(), cv.ShouldEqual, "Unbound symbol 'nope'")

		cv.So(local.Depth(), cv.ShouldEqual, 2)
		cv.So(local.Root() == global, cv.ShouldBeTrue)
	})
}

func Test111ScopeHandsOutCopies(t *testing.T) {

	cv.Convey(`Values going into or coming out of a scope are copies`, t, func() {

		s := NewScope()
		q := MakeQexpr(MakeNum(1))
		s.BindSymbol("q", q)
		q.Append(MakeNum(2))

		got, err := s.LookupSymbol("q")
		panicOn(err)
		cv.So(got.SexpString(), cv.ShouldEqual, "{1}")

		got.(*SexpQexpr).Append(MakeNum(3))
		again, _ := s.LookupSymbol("q")
		cv.So(again.SexpString(), cv.ShouldEqual, "{1}")
	})
}

func Test112DefineGlobalReachesRoot(t *testing.T) {

	cv.Convey(`DefineGlobal from a nested scope binds in the outermost one`, t, func() {

		global := NewNamedScope("global")
		mid := NewScope()
		mid.Parent = global
		inner := NewScope()
		inner.Parent = mid

		inner.DefineGlobal("g", MakeNum(7))
		_, inMid := mid.Map["g"]
		cv.So(inMid, cv.ShouldBeFalse)
		cv.So(global.Map["g"], cv.ShouldResemble, MakeNum(7))
		cv.So(global.SortedNames(), cv.ShouldResemble, []string{"g"})
	})
}
