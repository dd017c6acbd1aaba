package render

import (
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/actuate/pkg/core"
	"github.com/go-drift/actuate/pkg/errors"
)

func mount(t *testing.T, m *Memory, node core.Node) core.Element {
	t.Helper()
	el := node.Build()
	require.NoError(t, m.Apply(node.View(core.NewViewContext(nil), el)))
	return el
}

func TestMemoryBuildsTreeFromChanges(t *testing.T) {
	m := NewMemory()
	mount(t, m, core.El("ul", core.Attrs{"class": "menu"},
		core.El("li", nil, core.Text("one")),
		core.El("li", nil, core.Text("two")),
	))

	require.Len(t, m.Root().Children, 1)
	list := m.Root().Children[0]
	assert.Equal(t, "ul", list.Tag)
	assert.Equal(t, core.Attrs{"class": "menu"}, list.Attrs)
	require.Len(t, list.Children, 2)
	assert.Equal(t, "one", list.Children[0].TextContent())
	assert.Equal(t, "onetwo", m.Text())
	assert.Equal(t, 5, m.Len())
	assert.Equal(t, 1, m.Frames())
}

func TestMemoryOrdersSiblingsBySlot(t *testing.T) {
	parent := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	m := NewMemory()
	err := m.Apply(core.ChangeList{
		{Op: core.OpInsert, ID: parent, Tag: "row"},
		{Op: core.OpInsert, ID: ids[0], Parent: parent, Slot: []int{2}, Text: "c"},
		{Op: core.OpInsert, ID: ids[1], Parent: parent, Slot: []int{0}, Text: "a"},
		{Op: core.OpInsert, ID: ids[2], Parent: parent, Slot: []int{1, 1}, Text: "b2"},
		{Op: core.OpInsert, ID: ids[3], Parent: parent, Slot: []int{1, 0}, Text: "b1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ab1b2c", m.Text())
}

func TestMemoryUpdateAndRemove(t *testing.T) {
	c := &struct{ set core.Setter[bool] }{}
	root := core.Compose("toggle", func(_ string, s *core.Scope) core.Node {
		long, set := core.UseState(s, true)
		c.set = set
		items := []core.Node{core.Text("first")}
		if long {
			items = append(items, core.El("b", nil, core.Text("second")))
		}
		return core.El("p", core.Attrs{"long": map[bool]string{true: "yes", false: "no"}[long]}, items...)
	})
	m := NewMemory()
	cx := core.NewViewContext(nil)
	el := root.Build()
	require.NoError(t, m.Apply(root.View(cx, el)))
	assert.Equal(t, "firstsecond", m.Text())

	c.set.Set(false)
	require.Equal(t, core.Ready, root.PollReady(nil, el, false))
	require.NoError(t, m.Apply(root.View(cx, el)))

	assert.Equal(t, "first", m.Text())
	assert.Equal(t, 2, m.Len())
	p := m.Find(func(n *HostNode) bool { return n.Tag == "p" })
	require.Len(t, p, 1)
	assert.Equal(t, "no", p[0].Attrs["long"])
}

func TestMemoryRemoveDropsSubtree(t *testing.T) {
	m := NewMemory()
	el := mount(t, m, core.El("div", nil, core.El("span", nil, core.Text("x"))))
	require.NoError(t, m.Apply(el.Remove()))
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Root().Children)
}

func TestMemoryErrors(t *testing.T) {
	known := uuid.New()
	tests := []struct {
		name   string
		change core.Change
		want   error
	}{
		{"update unknown", core.Change{Op: core.OpUpdate, ID: uuid.New()}, errors.ErrUnknownElement},
		{"remove unknown", core.Change{Op: core.OpRemove, ID: uuid.New()}, errors.ErrUnknownElement},
		{"insert under unknown", core.Change{Op: core.OpInsert, ID: uuid.New(), Parent: uuid.New()}, errors.ErrUnknownElement},
		{"duplicate insert", core.Change{Op: core.OpInsert, ID: known, Tag: "div"}, errors.ErrDuplicateElement},
		{"remove root", core.Change{Op: core.OpRemove, ID: uuid.Nil}, errors.ErrUnknownElement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory()
			require.NoError(t, m.Apply(core.ChangeList{{Op: core.OpInsert, ID: known, Tag: "div"}}))

			err := m.Apply(core.ChangeList{tt.change})
			require.ErrorIs(t, err, tt.want)
			var rerr *errors.RenderError
			require.True(t, stderrors.As(err, &rerr))
			assert.Equal(t, tt.change.Op.String(), rerr.Op)
			assert.Equal(t, 1, m.Frames(), "failed frames are not counted")
		})
	}
}

func TestMemoryDump(t *testing.T) {
	m := NewMemory()
	mount(t, m, core.El("div", core.Attrs{"id": "main", "class": "box"},
		core.Text("hello"),
		core.El("br", nil),
	))
	want := "<div class=\"box\" id=\"main\">\n" +
		"  \"hello\" (35px)\n" +
		"  <br>\n"
	assert.Equal(t, want, m.Dump())
}

func TestMemoryTextWidth(t *testing.T) {
	m := NewMemory()
	assert.Equal(t, 0, m.TextWidth(""))
	assert.Equal(t, 7*12, m.TextWidth("hello, world"))
}

func TestMemoryNode(t *testing.T) {
	m := NewMemory()
	mount(t, m, core.Text("solo"))
	texts := m.Find((*HostNode).IsText)
	require.Len(t, texts, 1)

	node, ok := m.Node(texts[0].ID)
	require.True(t, ok)
	assert.Equal(t, "solo", node.Text)

	_, ok = m.Node(uuid.Nil)
	assert.False(t, ok)
}
