//go:build cgo

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"baseline/internal/rules"
)

func TestScan_SuppressesNestedJSX(t *testing.T) {
	src := `export function App() {
  return (
    <div>
      {/* baseline-allow-next-line span-click */}
      <span onClick={a}>x</span>
      <span onClick={b}>y</span> {/* baseline-allow-span-click */}
      <span onClick={c}>z</span>
    </div>
  );
}
`
	spec := rules.Spec{Type: rules.TypeNoSpanClickHandler, Config: rules.Config{ID: "span-click"}}
	res := scan(t, []rules.Spec{spec}, map[string]string{"App.tsx": src})

	require.Len(t, res.Violations, 1)
	v := res.Violations[0]
	assert.Equal(t, 7, v.Line)
	assert.Equal(t, 7, v.Column)
	assert.Equal(t, "      <span onClick={c}>z</span>", v.SourceLine)
}
