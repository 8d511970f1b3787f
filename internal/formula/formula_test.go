package formula

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval_Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		src  string
		env  Env
		want float64
	}{
		{"constant", "3", nil, 3},
		{"empty is zero", "  ", nil, 0},
		{"precedence", "1 + 2 * 3", nil, 7},
		{"parens", "(1 + 2) * 3", nil, 9},
		{"unary minus", "-4 + 1", nil, -3},
		{"double unary", "--2", nil, 2},
		{"modulo", "7 % 3", nil, 1},
		{"float", "0.5 * 4", nil, 2},
		{"leading dot", ".25 * 8", nil, 2},
		{"exponent", "1e2 / 4", nil, 25},
		{"index variable", "index * 2", Env{"index": 3}, 6},
		{"short alias", "i + n", Env{"i": 1, "n": 4}, 5},
		{"math prefix", "Math.floor(i / 2)", Env{"i": 5}, 2},
		{"min max", "max(1, min(5, i))", Env{"i": 3}, 3},
		{"round half up", "round(2.5)", nil, 3},
		{"round negative half", "round(-2.5)", nil, -2},
		{"pi", "floor(Math.PI * 100)", nil, 314},
		{"pow", "pow(2, 3)", nil, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.src, tt.env)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCompile_SyntaxErrors(t *testing.T) {
	cases := []string{
		"1 +",
		"(1 + 2",
		"1 2",
		"foo(1)",
		"abs()",
		"abs(1, 2)",
		"pow(1)",
		"1 $ 2",
		"a.b",
		"1..2",
		")",
	}

	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, err := Compile(src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax), "want ErrSyntax, got %v", err)
		})
	}
}

func TestEval_RuntimeErrors(t *testing.T) {
	_, err := Eval("x + 1", Env{"i": 0})
	assert.ErrorIs(t, err, ErrUnknownIdent)

	_, err = Eval("1 / (i - i)", Env{"i": 2})
	assert.ErrorIs(t, err, ErrDivideByZero)

	_, err = Eval("4 % 0", nil)
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestExpr_ReusableAndDeterministic(t *testing.T) {
	e, err := Compile("cos(i * PI / 2) * 3")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		a, err := e.Eval(Env{"i": float64(i)})
		require.NoError(t, err)
		b, err := e.Eval(Env{"i": float64(i)})
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.InDelta(t, 3*math.Cos(float64(i)*math.Pi/2), a, 1e-12)
	}
}

func TestExpr_Variables(t *testing.T) {
	e, err := Compile("i * 2 + max(i, n) - size")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"i", "n", "size"}, e.Variables())
	assert.Equal(t, "i * 2 + max(i, n) - size", e.String())
}
