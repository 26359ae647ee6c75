package journal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brewops/brewops/internal/repository"
	"github.com/brewops/brewops/internal/services/ledger"
	"github.com/brewops/brewops/internal/testutil"
	"github.com/brewops/brewops/internal/util"
)

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	db := testutil.NewTestDB(t)
	clock := util.NewManualClock(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))
	store := repository.NewStore(db.DB, clock)
	l, err := ledger.Open(context.Background(), store, "test",
		ledger.WithClock(clock),
		ledger.WithSeed(func() *ledger.State { return testutil.FixtureState() }))
	if err != nil {
		t.Fatalf("opening ledger: %v", err)
	}
	return l
}

func TestView_Render(t *testing.T) {
	v := New(newTestLedger(t), 10)
	v.SetTimeFormat("2006-01-02 15:04")
	v.Refresh()

	output := v.Render(120, 40)
	for _, want := range []string{"ЖУРНАЛ ОПЕРАЦИЙ", "ПРИХОД", "Солод Pilsner: +100", "Стр. 1/1"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestView_Paging(t *testing.T) {
	l := newTestLedger(t)
	ctx := ledger.WithActor(context.Background(), "admin")
	for range 4 {
		if _, err := l.AdjustItem(ctx, "hops", decimal.NewFromInt(-1), "Варка"); err != nil {
			t.Fatal(err)
		}
	}

	v := New(l, 2)
	v.Refresh()
	if v.Page() != 1 {
		t.Fatalf("expected page 1, got %d", v.Page())
	}
	if out := v.Render(120, 40); !strings.Contains(out, "РАСХОД") || !strings.Contains(out, "Стр. 1/3") {
		t.Errorf("expected newest issues on first of three pages, got:\n%s", out)
	}

	v.NextPage()
	v.NextPage()
	v.NextPage()
	if v.Page() != 3 {
		t.Errorf("expected to stop at last page, got %d", v.Page())
	}
	if out := v.Render(120, 40); !strings.Contains(out, "ПРИХОД") {
		t.Error("expected the oldest receipt on the last page")
	}

	v.PrevPage()
	if v.Page() != 2 {
		t.Errorf("expected page 2, got %d", v.Page())
	}
}

func TestView_Empty(t *testing.T) {
	db := testutil.NewTestDB(t)
	l, err := ledger.Open(context.Background(), repository.NewStore(db.DB, util.SystemClock{}), "empty")
	if err != nil {
		t.Fatal(err)
	}

	v := New(l, 10)
	v.Refresh()
	if !strings.Contains(v.Render(120, 40), "Журнал пуст.") {
		t.Error("expected empty message")
	}
}
