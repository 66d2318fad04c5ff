package tests

import (
	"context"
	"testing"

	"github.com/woq-blended/hawtio-integration/pkg/ports"
)

// RouteSourceContractTest is a reusable test suite that verifies if an adapter complies with ports.RouteSource.
// wantRoutes lists the ids of the route elements the source is expected to hold, in document order.
func RouteSourceContractTest(t *testing.T, source ports.RouteSource, wantRoutes []string) {
	t.Helper()

	t.Run("Load_Routes", func(t *testing.T) {
		doc, err := source.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading routes: %v", err)
		}
		if doc.Root() == nil {
			t.Fatal("expected a root element")
		}

		var got []string
		for _, el := range doc.FindElements("//route") {
			got = append(got, el.SelectAttrValue("id", ""))
		}
		if len(got) != len(wantRoutes) {
			t.Fatalf("expected %d routes, got %d (%v)", len(wantRoutes), len(got), got)
		}
		for i := range got {
			if got[i] != wantRoutes[i] {
				t.Errorf("route %d: got %q, want %q", i, got[i], wantRoutes[i])
			}
		}
	})

	t.Run("Load_Fresh", func(t *testing.T) {
		first, err := source.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first.Root().CreateAttr("mutated", "true")

		second, err := source.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if second.Root().SelectAttr("mutated") != nil {
			t.Error("expected Load to return an independent document")
		}
	})

	t.Run("Load_Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := source.Load(ctx); err == nil {
			t.Error("expected error for canceled context, got nil")
		}
	})
}
