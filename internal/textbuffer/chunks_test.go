package textbuffer

import (
	"testing"

	"github.com/xonecas/symb/internal/graphemepool"
	"github.com/xonecas/symb/internal/rope"
	"github.com/xonecas/symb/internal/textwidth"
)

func TestBuildChunkMintsFreshSlotOnRefcountSaturation(t *testing.T) {
	pool := graphemepool.New([]int{8, 16, 32}, 64)
	id, err := pool.Alloc([]byte("中"))
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	for i := 0; i < 255; i++ {
		if err := pool.Incref(id); err != nil {
			t.Fatalf("Incref #%d: %v", i, err)
		}
	}

	r := rope.New()
	chunk, err := buildChunk(r, pool, textwidth.Unicode, "中", "", "")
	if err != nil {
		t.Fatalf("buildChunk on saturated cluster = %v, want success via a forced-new slot", err)
	}
	if len(chunk.GraphemeIDs) != 1 {
		t.Fatalf("GraphemeIDs = %v, want one entry", chunk.GraphemeIDs)
	}
	gotID := chunk.GraphemeIDs[0]
	if gotID == id {
		t.Error("buildChunk reused the saturated id instead of minting a new slot")
	}
	if rc, err := pool.Refcount(gotID); err != nil || rc != 1 {
		t.Errorf("new slot refcount = %d, %v, want 1, nil", rc, err)
	}
}
