package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestElementNode_InsertsChildrenUnderHost(t *testing.T) {
	_, changes := newHarness(t, El("list", Attrs{"role": "menu"},
		Text("a"),
		Text("b"),
	))
	if len(changes) != 3 {
		t.Fatalf("changes = %d, want 3", len(changes))
	}
	host := changes[0]
	if host.Tag != "list" || host.Parent != uuid.Nil {
		t.Errorf("host change = %+v, want root insert of list", host)
	}
	if diff := cmp.Diff(Attrs{"role": "menu"}, host.Attrs); diff != "" {
		t.Errorf("attrs mismatch (-want +got):\n%s", diff)
	}
	for i, c := range changes[1:] {
		if c.Parent != host.ID {
			t.Errorf("child %d parent = %v, want %v", i, c.Parent, host.ID)
		}
		if diff := cmp.Diff([]int{i}, c.Slot); diff != "" {
			t.Errorf("child %d slot mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestElementNode_AttrsUpdate(t *testing.T) {
	c := &capture[string]{}
	root := Compose("attrs", func(_ string, s *Scope) Node {
		color, set := UseState(s, "red")
		c.set = set
		return El("box", Attrs{"color": color})
	})
	h, _ := newHarness(t, root)

	c.set.Set("blue")
	_, changes := h.step(false)
	want := ChangeList{{Op: OpUpdate, Tag: "box", Attrs: Attrs{"color": "blue"}}}
	if diff := cmp.Diff(want, changes, cmpIgnoreIDs); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestFragment_SlotsNestUnderParentSlot(t *testing.T) {
	_, changes := newHarness(t, El("root", nil,
		Text("first"),
		Fragment(Text("x"), Text("y")),
		Text("last"),
	))
	got := map[string][]int{}
	for _, c := range changes[1:] {
		got[c.Text] = c.Slot
	}
	want := map[string][]int{
		"first": {0},
		"x":     {1, 0},
		"y":     {1, 1},
		"last":  {2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
}

func TestChildList_ShrinkRemovesExtras(t *testing.T) {
	c := &capture[int]{}
	root := Compose("list", func(_ string, s *Scope) Node {
		n, set := UseState(s, 3)
		c.set = set
		items := make([]Node, n)
		for i := range items {
			items[i] = Textf("item %d", i)
		}
		return El("ul", nil, items...)
	})
	h, initial := newHarness(t, root)
	removedID := initial[3].ID

	c.set.Set(2)
	_, changes := h.step(false)
	want := ChangeList{{Op: OpRemove, ID: removedID}}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}

	c.set.Set(4)
	_, changes = h.step(false)
	if diff := cmp.Diff([]string{"item 2", "item 3"}, texts(changes)); diff != "" {
		t.Errorf("grow mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3}, changes[1].Slot); diff != "" {
		t.Errorf("slot mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyed_DifferentKeyReplacesElement(t *testing.T) {
	c := &capture[string]{}
	root := Compose("keyed", func(_ string, s *Scope) Node {
		key, set := UseState(s, "a")
		c.set = set
		return Keyed(key, Text("same"))
	})
	h, initial := newHarness(t, root)

	c.set.Set("a")
	if _, changes := h.step(false); changes != nil {
		t.Errorf("same key changes = %+v, want none", changes)
	}

	c.set.Set("b")
	_, changes := h.step(false)
	if diff := cmp.Diff([]Op{OpRemove, OpInsert}, ops(changes)); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
	if changes[0].ID != initial[0].ID {
		t.Error("removed element is not the original one")
	}
	if changes[1].ID == initial[0].ID {
		t.Error("replacement reused the original element ID")
	}
}

func TestCanUpdate(t *testing.T) {
	tests := []struct {
		name       string
		prev, next Node
		want       bool
	}{
		{"same text type", Text("a"), Text("b"), true},
		{"text to element", Text("a"), El("p", nil), false},
		{"same tag", El("p", nil), El("p", Attrs{"x": "y"}), true},
		{"different tag", El("p", nil), El("div", nil), false},
		{"equal keys", Keyed(1, Text("a")), Keyed(1, Text("b")), true},
		{"different keys", Keyed(1, Text("a")), Keyed(2, Text("a")), false},
		{"keyed inner type differs", Keyed(1, Text("a")), Keyed(1, Empty()), false},
		{"nil", nil, Text("a"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canUpdate(tt.prev, tt.next); got != tt.want {
				t.Errorf("canUpdate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmpty_ContributesNothing(t *testing.T) {
	h, changes := newHarness(t, El("box", nil, nil, Empty()))
	if len(changes) != 1 {
		t.Errorf("changes = %+v, want only the host insert", changes)
	}
	if removed := h.el.Remove(); len(removed) != 1 {
		t.Errorf("remove = %+v, want one change", removed)
	}
}

func TestHostRemove_ClosesDescendantMailboxes(t *testing.T) {
	c := &capture[int]{}
	h, _ := newHarness(t, El("box", nil, counterView(c, 0)))

	h.el.Remove()
	c.set.Set(1)
	if got := h.poll(false); got != Pending {
		t.Errorf("poll after remove = %v, want pending", got)
	}
}

var cmpIgnoreIDs = cmp.FilterPath(func(p cmp.Path) bool {
	switch p.Last().String() {
	case ".ID", ".Parent":
		return true
	}
	return false
}, cmp.Ignore())
