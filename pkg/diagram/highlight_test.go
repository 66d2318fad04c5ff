package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlight(t *testing.T) {
	d := newTestBuilder().Build(parse(t, choiceRoute), "")

	assert.Equal(t, []int{0}, Highlight(d, "r1"))
	assert.True(t, d.Nodes[0].Selected)

	assert.Equal(t, []int{6}, Highlight(d, "log7"))
	assert.False(t, d.Nodes[0].Selected, "previous selection is cleared")

	assert.Empty(t, Highlight(d, ""))
	assert.Nil(t, Highlight(nil, "x"))
}

func TestHighlight_PrefersElementID(t *testing.T) {
	d := newTestBuilder().Build(parse(t, `<route id="r"><from uri="direct:a"/><to id="audit" _cid="ctx_audit" uri="mock:a"/></route>`), "")
	require.Len(t, d.Nodes, 2)

	assert.Equal(t, []int{1}, Highlight(d, "audit"))
	assert.Empty(t, Highlight(d, "ctx_audit"))
}
