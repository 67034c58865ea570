package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"dischargecore/internal/infra/blob/core"
)

func TestPutGetHeadDeleteList(t *testing.T) {
	ctx := context.Background()
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("unexpected driver %s", store.Driver())
	}

	info, err := store.Put(ctx, "plans/1.json", strings.NewReader(`{"plan_id":1}`), core.PutOptions{ContentType: "application/json", Metadata: map[string]string{"k": "v"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 13 || info.ContentType != "application/json" {
		t.Fatalf("unexpected info %+v", info)
	}

	if _, err := store.Put(ctx, "plans/1.json", strings.NewReader("x"), core.PutOptions{}); err == nil {
		t.Fatalf("expected duplicate put rejection")
	}

	got, rc, err := store.Get(ctx, "plans/1.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != `{"plan_id":1}` || got.Metadata["k"] != "v" {
		t.Fatalf("unexpected content %q info %+v", body, got)
	}

	if _, err := store.Head(ctx, "plans/1.json"); err != nil {
		t.Fatalf("head: %v", err)
	}
	if _, err := store.Head(ctx, "plans/2.json"); err == nil {
		t.Fatalf("expected head miss")
	}

	if _, err := store.Put(ctx, "plans/2.json", strings.NewReader("{}"), core.PutOptions{}); err != nil {
		t.Fatalf("put second: %v", err)
	}
	infos, err := store.List(ctx, "plans/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "plans/1.json" || infos[1].Key != "plans/2.json" {
		t.Fatalf("unexpected listing %+v", infos)
	}

	existed, err := store.Delete(ctx, "plans/1.json")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	existed, err = store.Delete(ctx, "plans/1.json")
	if err != nil || existed {
		t.Fatalf("second delete: existed=%v err=%v", existed, err)
	}
}
