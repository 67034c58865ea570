package fs

import (
	"context"
	"io"
	"strings"
	"testing"

	"dischargecore/internal/infra/blob/core"
)

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if store.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected driver %s", store.Driver())
	}

	payload := `{"plan_id":7}`
	info, err := store.Put(ctx, "plans/7.json", strings.NewReader(payload), core.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(payload)) || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}

	if _, err := store.Put(ctx, "plans/7.json", strings.NewReader("x"), core.PutOptions{}); err == nil {
		t.Fatalf("expected create-only rejection")
	}

	got, rc, err := store.Get(ctx, "plans/7.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != payload || got.ETag != info.ETag {
		t.Fatalf("round trip mismatch: %q etag %s vs %s", body, got.ETag, info.ETag)
	}

	infos, err := store.List(ctx, "plans/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 || infos[0].Key != "plans/7.json" {
		t.Fatalf("unexpected listing %+v", infos)
	}

	existed, err := store.Delete(ctx, "plans/7.json")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	if _, err := store.Head(ctx, "plans/7.json"); err == nil {
		t.Fatalf("expected head miss after delete")
	}
}

func TestKeySanitization(t *testing.T) {
	ctx := context.Background()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, key := range []string{"", "  ", "../escape", "/abs/path", "a/../../b"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Fatalf("expected rejection for key %q", key)
		}
	}
}
