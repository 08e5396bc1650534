package tree

import (
	"testing"

	"github.com/testgen/tgv/pkg/model"
)

func newMultiTree(t *testing.T) *Tree {
	t.Helper()
	tr := New(WithMultiSelect(true))
	tr.Load(catalogFixture())
	return tr
}

// TestSingleSelectClick verifies row clicks set the scalar without toggling off
func TestSingleSelectClick(t *testing.T) {
	tr := New()
	tr.Load(catalogFixture())

	if !tr.Click("T1") {
		t.Fatal("click on T1 failed")
	}
	if tr.SelectedID() != "T1" {
		t.Errorf("expected T1, got %q", tr.SelectedID())
	}
	tr.Click("T1")
	if tr.SelectedID() != "T1" {
		t.Error("second click must not deselect")
	}
	if tr.Node("T1").Selected {
		t.Error("single-select must not touch per-node flags")
	}
	if tr.Click("missing") {
		t.Error("unknown id should report false")
	}
	if tr.SelectedID() != "T1" {
		t.Error("unknown click must not change selection")
	}
}

// TestInSelectedPath verifies path highlighting covers the node and its ancestors
func TestInSelectedPath(t *testing.T) {
	tr := New()
	tr.Load(catalogFixture())
	tr.Click("C4")

	for id, want := range map[string]bool{"g1": true, "T2": true, "C4": true, "T1": false, "C3": false, "g2": false} {
		if got := tr.InSelectedPath(tr.Node(id)); got != want {
			t.Errorf("InSelectedPath(%s) = %v, want %v", id, got, want)
		}
	}
}

// TestMultiSelectLeafToggle verifies leaf toggling and parent aggregation
func TestMultiSelectLeafToggle(t *testing.T) {
	tr := newMultiTree(t)

	tr.Click("C1")
	if !tr.Node("C1").Selected {
		t.Fatal("C1 should be selected")
	}
	if tr.Node("T1").Selected {
		t.Error("T1 is only partially selected")
	}
	if !Indeterminate(tr.Node("T1")) || !Indeterminate(tr.Node("g1")) {
		t.Error("T1 and g1 should be indeterminate")
	}

	tr.Click("C2")
	if !tr.Node("T1").Selected {
		t.Error("T1 should be selected once all children are")
	}
	if Indeterminate(tr.Node("T1")) {
		t.Error("fully selected node is not indeterminate")
	}
	if tr.Node("g1").Selected {
		t.Error("g1 still has an unselected table")
	}

	tr.Click("C1")
	if tr.Node("C1").Selected || tr.Node("T1").Selected {
		t.Error("deselecting C1 should clear T1")
	}
}

// TestMultiSelectInternalClick verifies select-all then clear-all on an internal node
func TestMultiSelectInternalClick(t *testing.T) {
	tr := newMultiTree(t)

	tr.Click("g1")
	for _, id := range []string{"g1", "T1", "T2", "C1", "C2", "C3", "C4", "C5"} {
		if !tr.Node(id).Selected {
			t.Errorf("%s should be selected", id)
		}
	}
	if tr.Node("g2").Selected {
		t.Error("g2 is outside the clicked subtree")
	}

	tr.Click("g1")
	Walk(tr.Roots(), func(n *Node) bool {
		if n.Selected {
			t.Errorf("%s should be cleared", n.ID)
		}
		return true
	})
}

// TestMultiSelectPartialInternalClickSelectsRest verifies a partial node selects all
func TestMultiSelectPartialInternalClickSelectsRest(t *testing.T) {
	tr := newMultiTree(t)
	tr.Click("C3")
	tr.Click("T2")
	for _, id := range []string{"C3", "C4", "C5", "T2"} {
		if !tr.Node(id).Selected {
			t.Errorf("%s should be selected", id)
		}
	}
}

// TestMultiSelectSkipsHiddenChildren verifies filtered-out items are never selected
func TestMultiSelectSkipsHiddenChildren(t *testing.T) {
	tr := newMultiTree(t)
	tr.ApplySearch("i") // order_id, customer_id, is_active

	tr.Click("T2")
	if !tr.Node("C3").Selected || !tr.Node("C5").Selected {
		t.Error("visible children should be selected")
	}
	if tr.Node("C4").Selected {
		t.Error("hidden C4 must not be selected")
	}
	if tr.Node("T2").Selected {
		t.Error("T2 is not fully selected while C4 is unselected")
	}
	if !Indeterminate(tr.Node("T2")) {
		t.Error("T2 should be indeterminate")
	}

	// Clicking again selects again: T2 is not fully selected
	tr.Click("T2")
	if tr.Node("C4").Selected {
		t.Error("hidden C4 must stay untouched")
	}

	// Once the filter is gone, C4 can be selected and T2 becomes full
	tr.ResetFilters()
	tr.Click("C4")
	if !tr.Node("T2").Selected {
		t.Error("T2 should now be selected")
	}

	// Clearing with a filter active keeps hidden children selected
	tr.ApplySearch("i")
	tr.Click("T2")
	if tr.Node("C3").Selected || tr.Node("C5").Selected {
		t.Error("visible children should be cleared")
	}
	if !tr.Node("C4").Selected {
		t.Error("hidden C4 keeps its selection while filtered out")
	}
}

// TestToggleChildOriginOnlyRecomputes verifies a bubbled click never toggles
func TestToggleChildOriginOnlyRecomputes(t *testing.T) {
	tr := newMultiTree(t)
	t1 := tr.Node("T1")

	Toggle(t1, OriginChild)
	if t1.Selected || tr.Node("C1").Selected {
		t.Error("child-originated click must not select anything")
	}

	tr.Node("C1").Selected = true
	tr.Node("C2").Selected = true
	Toggle(t1, OriginChild)
	if !t1.Selected {
		t.Error("recompute should mark T1 selected")
	}
	if !tr.Node("C1").Selected {
		t.Error("recompute must not clear children")
	}
}

// TestLeavingMultiSelectClearsFlags verifies per-node flags are multi-select only
func TestLeavingMultiSelectClearsFlags(t *testing.T) {
	tr := newMultiTree(t)
	tr.Click("g1")
	tr.SetMultiSelect(false)
	if CountSelectedLeaves(tr.Roots()) != 0 {
		t.Error("expected all flags cleared")
	}
	Walk(tr.Roots(), func(n *Node) bool {
		if n.Selected {
			t.Errorf("%s still selected", n.ID)
		}
		return true
	})

	tr.Click("C2")
	if tr.SelectedID() != "C2" || tr.Node("C2").Selected {
		t.Error("expected single-select behavior after leaving multi-select")
	}
}

func TestCountSelectedLeaves(t *testing.T) {
	tr := newMultiTree(t)
	tr.Click("T2")
	tr.Click("C1")
	if got := CountSelectedLeaves(tr.Roots()); got != 4 {
		t.Errorf("CountSelectedLeaves = %d, want 4", got)
	}
}

func TestOriginString(t *testing.T) {
	if OriginSelf.String() != "self" || OriginChild.String() != "child" {
		t.Errorf("unexpected origin names %q %q", OriginSelf, OriginChild)
	}
}

// TestMultiSelectionPartial verifies minimal covering for a partial selection
func TestMultiSelectionPartial(t *testing.T) {
	tr := newMultiTree(t)
	tr.Click("T1")
	tr.Click("C4")

	got := tr.MultiSelection()
	if len(got) != 1 || got[0].ID != "g1" {
		t.Fatalf("expected single g1 entry, got %+v", got)
	}
	g1 := got[0]
	if g1.All == nil || *g1.All {
		t.Errorf("g1 should be partial")
	}
	if len(g1.Children) != 2 {
		t.Fatalf("expected T1 and T2 entries, got %+v", g1.Children)
	}

	t1, t2 := g1.Children[0], g1.Children[1]
	if t1.ID != "T1" || t1.All == nil || !*t1.All || len(t1.Children) != 2 {
		t.Errorf("unexpected T1 entry %+v", t1)
	}
	if t2.ID != "T2" || t2.All == nil || *t2.All {
		t.Errorf("unexpected T2 entry %+v", t2)
	}
	if len(t2.Children) != 1 || t2.Children[0].ID != "C4" || t2.Children[0].All != nil {
		t.Errorf("expected bare C4 leaf entry, got %+v", t2.Children)
	}
}

// TestMultiSelectionAllChildrenPartial verifies partially covered children never make a full parent
func TestMultiSelectionAllChildrenPartial(t *testing.T) {
	tr := newMultiTree(t)
	tr.Click("C1")
	tr.Click("C3")

	got := tr.MultiSelection()
	if len(got) != 1 {
		t.Fatalf("expected one entry, got %+v", got)
	}
	if got[0].All == nil || *got[0].All {
		t.Error("g1 has entries for every child but neither is full")
	}
}

// TestMultiSelectionCompleteness verifies full coverage collapses to all:true
func TestMultiSelectionCompleteness(t *testing.T) {
	tr := newMultiTree(t)
	tr.Click("g1")

	got := tr.MultiSelection()
	if len(got) != 1 {
		t.Fatalf("expected one entry (g2 is an unselected leaf), got %+v", got)
	}
	assertAllCovered(t, got[0])
}

// TestMultiSelectionEmpty verifies nothing selected yields nothing
func TestMultiSelectionEmpty(t *testing.T) {
	tr := newMultiTree(t)
	if got := tr.MultiSelection(); len(got) != 0 {
		t.Errorf("expected empty selection, got %+v", got)
	}
}

// TestMultiSelectionTopLevelLeaf verifies a selected root leaf is a bare entry
func TestMultiSelectionTopLevelLeaf(t *testing.T) {
	tr := newMultiTree(t)
	tr.Click("g2")
	got := tr.MultiSelection()
	if len(got) != 1 || got[0].ID != "g2" || got[0].All != nil || got[0].Children != nil {
		t.Errorf("expected {id:g2}, got %+v", got)
	}
}

func assertAllCovered(t *testing.T, entry model.SelectedNode) {
	t.Helper()
	if len(entry.Children) == 0 {
		if entry.All != nil {
			t.Errorf("leaf %s should not carry all", entry.ID)
		}
		return
	}
	if entry.All == nil || !*entry.All {
		t.Errorf("%s should be all:true", entry.ID)
	}
	for _, child := range entry.Children {
		assertAllCovered(t, child)
	}
}
