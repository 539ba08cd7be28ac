package wasmexports

import (
	"testing"

	"github.com/SimonWaldherr/xtcreader/internal/config"
	"github.com/SimonWaldherr/xtcreader/internal/position"
	"github.com/SimonWaldherr/xtcreader/internal/sdk/fake"
)

func TestContractVersion(t *testing.T) {
	reset()
	if got := contractVersionImpl(); got != 1 {
		t.Fatalf("contractVersionImpl() = %d, want 1", got)
	}
}

func TestInit_RejectsMismatchedAPIVersion(t *testing.T) {
	reset()
	if got := initImpl(contractVersion+1, 0, 100, 100); got != -1 {
		t.Fatalf("initImpl with wrong version = %d, want -1", got)
	}
}

func TestInit_AcceptsMatchingVersion(t *testing.T) {
	reset()
	if got := initImpl(contractVersion, 0, 100, 100); got != 0 {
		t.Fatalf("initImpl = %d, want 0", got)
	}
	if theShell == nil {
		t.Fatal("expected a shell to be created")
	}
}

func TestTick_WithoutInitReturnsError(t *testing.T) {
	reset()
	if got := tickImpl(0); got != -1 {
		t.Fatalf("tickImpl before init = %d, want -1", got)
	}
}

func TestTick_AfterBindRunsOneStep(t *testing.T) {
	reset()
	disp := fake.NewDisplay(300, 200)
	touch := &fake.Touch{}
	fsys := fake.NewFS()
	nvs := fake.NewNVS()
	Bind(disp, touch, fsys, nvs, nil, config.Default())

	if got := tickImpl(0); got != 0 {
		t.Fatalf("tickImpl = %d, want 0", got)
	}
}

func TestOnGesture_FiltersNonTapKinds(t *testing.T) {
	reset()
	disp := fake.NewDisplay(300, 200)
	touch := &fake.Touch{}
	fsys := fake.NewFS()
	nvs := fake.NewNVS()
	Bind(disp, touch, fsys, nvs, nil, config.Default())

	if got := onGestureImpl(2 /* not a tap */, 10, 10, 0, 0, 0, 0, 0); got != 0 {
		t.Fatalf("onGestureImpl = %d, want 0", got)
	}
	if theShell.State.PendingTap != nil {
		t.Fatal("non-tap gesture should not populate the pending tap slot")
	}

	if got := onGestureImpl(1, 10, 20, 0, 0, 0, 0, 0); got != 0 {
		t.Fatalf("onGestureImpl = %d, want 0", got)
	}
	if theShell.State.PendingTap == nil || theShell.State.PendingTap.X != 10 {
		t.Fatalf("expected a pending tap at x=10, got %+v", theShell.State.PendingTap)
	}
}

func TestAllocFree_RoundTrip(t *testing.T) {
	reset()
	tok := allocImpl(64)
	if tok == 0 {
		t.Fatal("allocImpl(64) returned 0")
	}
	if len(arena[tok]) != 64 {
		t.Fatalf("arena[%d] length = %d, want 64", tok, len(arena[tok]))
	}
	freeImpl(tok, 64)
	if _, ok := arena[tok]; ok {
		t.Fatal("expected token to be freed")
	}
}

func TestAlloc_RejectsNonPositiveLength(t *testing.T) {
	reset()
	if got := allocImpl(0); got != 0 {
		t.Fatalf("allocImpl(0) = %d, want 0", got)
	}
	if got := allocImpl(-1); got != 0 {
		t.Fatalf("allocImpl(-1) = %d, want 0", got)
	}
}

func TestBind_OverridesAutoInitShell(t *testing.T) {
	reset()
	if got := initImpl(contractVersion, 0, 100, 100); got != 0 {
		t.Fatalf("initImpl = %d, want 0", got)
	}
	disp := fake.NewDisplay(50, 50)
	touch := &fake.Touch{}
	fsys := fake.NewFS()
	nvs := fake.NewNVS()
	Bind(disp, touch, fsys, nvs, nil, config.Default())

	store := position.NewStore(nvs)
	store.Store("a.xtc", 3)

	if theShell.Store == nil {
		t.Fatal("expected shell to carry a position store")
	}
	if _, ok := theShell.Store.Load("a.xtc"); !ok {
		t.Fatal("expected bound shell to share the same NVS-backed store")
	}
}
