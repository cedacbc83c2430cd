package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderSrc(t *testing.T, src string, ctx map[string]interface{}) string {
	t.Helper()
	prog, err := Parse(src)
	require.NoError(t, err)
	out, err := Render(prog, ctx)
	require.NoError(t, err)
	return out
}

func TestRenderLiteralText(t *testing.T) {
	out := renderSrc(t, "hello, world", nil)
	assert.Equal(t, "hello, world", out)
}

func TestRenderEscapedMarker(t *testing.T) {
	out := renderSrc(t, `literal \@= not an interp`, nil)
	assert.Equal(t, "literal @= not an interp", out)
}

func TestRenderInterp(t *testing.T) {
	out := renderSrc(t, "name: @=name=@", map[string]interface{}{"name": "scribble"})
	assert.Equal(t, "name: scribble", out)
}

func TestRenderComment(t *testing.T) {
	out := renderSrc(t, "a@# dropped #@b", nil)
	assert.Equal(t, "ab", out)
}

func TestRenderIfElse(t *testing.T) {
	src := `@% if n > 0 %@; positive @% else %@; non-positive @% end %@;`
	assert.Equal(t, " positive ", renderSrc(t, src, map[string]interface{}{"n": int32(3)}))
	assert.Equal(t, " non-positive ", renderSrc(t, src, map[string]interface{}{"n": int32(-1)}))
}

func TestRenderForArray(t *testing.T) {
	src := `@% for i, v in items %@;@=i=@:@=v=@; @% end %@;`
	out := renderSrc(t, src, map[string]interface{}{
		"items": []interface{}{"a", "b", "c"},
	})
	assert.Equal(t, "0:a; 1:b; 2:c; ", out)
}

func TestRenderSwitch(t *testing.T) {
	src := `@% switch kind %@;@% case 1 %@;one@% case 2 %@;two@% end %@;`
	assert.Equal(t, "one", renderSrc(t, src, map[string]interface{}{"kind": int32(1)}))
	assert.Equal(t, "two", renderSrc(t, src, map[string]interface{}{"kind": int32(2)}))
	assert.Equal(t, "", renderSrc(t, src, map[string]interface{}{"kind": int32(3)}))
}

func TestRenderSetAndArithmetic(t *testing.T) {
	src := `@% set total = a + b * 2 %@;@=total=@`
	out := renderSrc(t, src, map[string]interface{}{"a": int32(1), "b": int32(3)})
	assert.Equal(t, "7", out)
}

func TestRenderMacroCallNotAClosure(t *testing.T) {
	src := `@% set outer = 99 %@;` +
		`@% macro greet(who: string) %@;hi @=who=@, outer=@=outer=@@% end %@;` +
		`@% call greet("a") %@;`
	out := renderSrc(t, src, nil)
	assert.Equal(t, "hi a, outer=", out)
}

func TestRenderMacroTypeMismatch(t *testing.T) {
	src := `@% macro greet(who: string) %@;hi @=who=@@% end %@;@% call greet(1) %@;`
	prog, err := Parse(src)
	require.NoError(t, err)
	_, err = Render(prog, nil)
	require.Error(t, err)
}

func TestRenderLenBuiltin(t *testing.T) {
	out := renderSrc(t, "@=len(items)=@", map[string]interface{}{
		"items": []interface{}{1, 2, 3},
	})
	assert.Equal(t, "3", out)
}

func TestRenderMemberAccess(t *testing.T) {
	out := renderSrc(t, "@=obj.name=@", map[string]interface{}{
		"obj": map[string]interface{}{"name": "nested"},
	})
	assert.Equal(t, "nested", out)
}

func TestParseUnterminatedBlock(t *testing.T) {
	_, err := Parse(`@% if x %@; no end`)
	require.Error(t, err)
}

func TestParseMismatchedEnd(t *testing.T) {
	_, err := Parse("unexpected @% end %@;")
	require.Error(t, err)
}

func TestTruthyRules(t *testing.T) {
	cases := []struct {
		v    interface{}
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{int32(0), false},
		{int32(1), true},
		{"", false},
		{"x", true},
		{[]interface{}{}, false},
		{[]interface{}{1}, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, truthy(c.v))
	}
}
