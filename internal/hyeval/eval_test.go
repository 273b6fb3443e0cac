package hyeval

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunString(t *testing.T) {
	testCases := []struct {
		In  string
		Out interface{}
	}{
		{`1`, int64(1)},
		{`(+ 1 2 3)`, int64(6)},
		{`(- 5)`, int64(-5)},
		{`(* "ab" 3)`, "ababab"},
		{`(/ 7 2)`, 3.5},
		{`(// -7 2)`, int64(-4)},
		{`(% -7 3)`, int64(2)},
		{`(** 2 10)`, int64(1024)},
		{`(** 2 -1)`, 0.5},
		{`(~ 5)`, int64(-6)},
		{`(< 1 2 3)`, true},
		{`(< 1 3 2)`, false},
		{`(= [1 2] [1 2])`, true},
		{`(in 2 [1 2 3])`, true},
		{`(not-in "x" "abc")`, true},
		{`(is None None)`, true},
		{`(is-not 1 None)`, true},
		{`(and 1 0 2)`, int64(0)},
		{`(or 0 "" "x")`, "x"},
		{`(not [])`, true},
		{`(if 0 "a" "b")`, "b"},
		{`(, 1 2)`, []interface{}{int64(1), int64(2)}},
		{`[1 (unpack-iterable [2 3]) 4]`, []interface{}{int64(1), int64(2), int64(3), int64(4)}},
		{`{"a" 1 (unpack-mapping {"b" 2})}`, map[string]interface{}{`'a'`: int64(1), `'b'`: int64(2)}},
		{`(get [1 2 3] -1)`, int64(3)},
		{`(get {"a" [1 2]} "a" 0)`, int64(1)},
		{`(cut [0 1 2 3 4] 1 None 2)`, []interface{}{int64(1), int64(3)}},
		{`(cut "hello" None None -1)`, "olleh"},
		{`(do (setv x 1) (+= x 2) x)`, int64(3)},
		{`(do (setv [a (unpack-iterable b) c] [1 2 3 4]) b)`, []interface{}{int64(2), int64(3)}},
		{`(do (setv (, a b) (, 1 2)) (setv (, a b) (, b a)) [a b])`, []interface{}{int64(2), int64(1)}},
		{`(do (setv d {}) (setv (get d "k") 1) d)`, map[string]interface{}{`'k'`: int64(1)}},
		{`(do (defn f [a &optional [b 2]] (+ a b)) (f 1))`, int64(3)},
		{`(do (defn f [&rest args &kwargs kw] [(len args) (len kw)]) (f 1 2 :x 3))`, []interface{}{int64(2), int64(1)}},
		{`(do (defn f [a &kwonly b] (- a b)) (f :b 1 :a 5))`, int64(4)},
		{`((fn [x] (* x x)) 4)`, int64(16)},
		{`(do (defn f [] (return 1) 2) (f))`, int64(1)},
		{`(do (setv acc []) (for [i (range 3)] (.append acc i)) acc)`, []interface{}{int64(0), int64(1), int64(2)}},
		{`(do (setv r 0) (for [i (range 3)] (if (= i 1) (break)) (else (setv r 1))) r)`, int64(0)},
		{`(do (setv r 0) (for [i (range 3)] (continue) (else (setv r 1))) r)`, int64(1)},
		{`(do (setv i 0) (while (< i 5) (setv i (+ i 1))) i)`, int64(5)},
		{`(do (defn g [] (yield 1) (yield-from [2 3])) (list (g)))`, []interface{}{int64(1), int64(2), int64(3)}},
		{`(do (setv it (iter [1 2])) (next it) (next it) (next it "done"))`, "done"},
		{`(try (/ 1 0) (except [e ZeroDivisionError] "caught"))`, "caught"},
		{`(try (get {} "k") (except [e [IndexError KeyError]] "lookup"))`, "lookup"},
		{`(try (raise (ValueError "x")) (except [ArithmeticError] 1) (except [] 2))`, int64(2)},
		{`(do (setv r []) (try (.append r 1) (else (.append r 2)) (finally (.append r 3))) r)`, []interface{}{int64(1), int64(2), int64(3)}},
		{`(do (setv x 1) (defn f [] (global x) (setv x 2)) (f) x)`, int64(2)},
		{`(do (defn outer [] (setv n 0) (defn inc [] (nonlocal n) (+= n 1)) (inc) (inc) n) (outer))`, int64(2)},
		{`(do (defn twice [f] (fn [x] (f (f x)))) (with-decorator twice (defn inc [x] (+ x 1))) (inc 0))`, int64(2)},
		{`(do (setv d {"a" 1 "b" 2}) (del (get d "a")) d)`, map[string]interface{}{`'b'`: int64(2)}},
		{`(.join "-" ["a" "b"])`, "a-b"},
		{`(format 3.14159 ".2f")`, "3.14"},
		{`(format 42 ">5")`, "   42"},
		{`(format 1234567 ",")`, "1,234,567"},
		{`(format "x" "^3")`, " x "},
		{`(format -5 "05")`, "-0005"},
		{`((. (__import__ "builtins") str) 5)`, "5"},
		{`(getattr (ValueError "m") "args")`, []interface{}{"m"}},
		{`(float "inf")`, nil},
		{`(sorted [3 1 2] :reverse True)`, []interface{}{int64(3), int64(2), int64(1)}},
		{`(sum [1 2 3])`, int64(6)},
		{`(max [1 5 2])`, int64(5)},
		{`(list (zip [1 2] "ab"))`, []interface{}{[]interface{}{int64(1), "a"}, []interface{}{int64(2), "b"}}},
		{`(list (enumerate "ab" 1))`, []interface{}{[]interface{}{int64(1), "a"}, []interface{}{int64(2), "b"}}},
		{`(repr "it's")`, `"it's"`},
		{`(repr "a\nb")`, `'a\nb'`},
		{`(ascii "é")`, `'\xe9'`},
	}

	for _, tc := range testCases {
		in := New()
		v, err := in.RunString(tc.In)
		require.NoError(t, err, tc.In)
		if tc.Out == nil {
			continue
		}
		assert.Equal(t, tc.Out, v.Interface(), tc.In)
	}
}

func TestRaised(t *testing.T) {
	testCases := []struct {
		In    string
		Class string
	}{
		{`(/ 1 0)`, "ZeroDivisionError"},
		{`undefined`, "NameError"},
		{`(get [1] 5)`, "IndexError"},
		{`(get {} "x")`, "KeyError"},
		{`(+ 1 "a")`, "TypeError"},
		{`(assert (= 1 2) "no")`, "AssertionError"},
		{`(next (iter []))`, "StopIteration"},
		{`(do (defn f [a] a) (f))`, "TypeError"},
		{`(do (defn f [a] a) (f 1 2))`, "TypeError"},
		{`(raise ValueError)`, "ValueError"},
		{`(raise (KeyError "k") :from None)`, "KeyError"},
	}

	for _, tc := range testCases {
		_, err := New().RunString(tc.In)
		var raised *Raised
		require.True(t, errors.As(err, &raised), tc.In)
		assert.Equal(t, tc.Class, raised.Class(), tc.In)
	}
}

func TestUnsupported(t *testing.T) {
	testCases := []string{
		`(import os)`,
		`(defclass A [] None)`,
		`(with [f (open "x")] None)`,
		`(__import__ "os")`,
	}

	for _, tc := range testCases {
		_, err := New().RunString(tc)
		assert.True(t, errors.Is(err, ErrUnsupported), tc)
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer

	in := New()
	in.SetOutput(&buf)

	_, err := in.RunString(`(print 1 "a" [None True]) (print "x" "y" :sep "," :end "")`)
	require.NoError(t, err)
	assert.Equal(t, "1 a [None, True]\nx,y", buf.String())
}

func TestGlobals(t *testing.T) {
	in := New()
	_, err := in.RunString(`(setv answer (* 6 7))`)
	require.NoError(t, err)

	v, err := in.Globals().Get("answer")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Interface())

	_, err = in.Globals().Get("question")
	assert.True(t, errors.Is(err, ErrUndefined))
}

func TestGeneratorLaziness(t *testing.T) {
	var buf bytes.Buffer

	in := New()
	in.SetOutput(&buf)

	_, err := in.RunString(`
		(defn g []
			(print "start")
			(yield 1)
			(print "middle")
			(yield 2))
		(setv it (g))
		(print "created")
		(next it)
		(print "first")
		(list it)`)
	require.NoError(t, err)
	assert.Equal(t, "created\nstart\nfirst\nmiddle\n", buf.String())
}
