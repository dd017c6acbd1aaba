// Package testing provides a view testing framework for actuate.
//
// # Quick Start
//
// Create a tester, pump a node, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    var set core.Setter[int]
//	    tester := actuatetest.NewViewTesterWithT(t)
//	    tester.PumpNode(core.Compose("clicks", func(_ string, s *core.Scope) core.Node {
//	        n, setN := core.UseState(s, 0)
//	        set = setN
//	        return core.El("button", nil, core.Textf("%d", n))
//	    }))
//
//	    set.Set(3)
//	    tester.PumpAndSettle()
//
//	    if !tester.Find(actuatetest.ByText("3")).Exists() {
//	        t.Error("expected '3'")
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare host tree snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	ACTUATE_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import actuatetest "github.com/go-drift/actuate/pkg/testing"
package testing
