package store

import (
	"context"
	"reflect"
	"testing"
	"time"
)

type fixtureRecord struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

func TestKVRoundTrip(t *testing.T) {
	t.Parallel()
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	in := fixtureRecord{Name: "Ash Garden", Count: 3, Tags: []string{"scifi", "serial"}}
	if err := s.Put(ctx, "fixture", in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out fixtureRecord
	ok, err := s.Get(ctx, "fixture", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get reported missing after Put")
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: put %+v got %+v", in, out)
	}
}

func TestKVMissingKeyReadsAsAbsent(t *testing.T) {
	t.Parallel()
	s := Store{Dir: t.TempDir()}

	var out fixtureRecord
	ok, err := s.Get(context.Background(), "never-written", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("missing key reported present")
	}
}

func TestKVCorruptRowReadsAsAbsent(t *testing.T) {
	t.Parallel()
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	db, err := s.openSQLite(ctx)
	if err != nil {
		t.Fatalf("openSQLite: %v", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO kv(k, json, updated_at_unixms) VALUES(?, ?, ?)`,
		"broken", `{"name": truncated`, time.Now().UnixMilli())
	_ = db.Close()
	if err != nil {
		t.Fatalf("inject corrupt row: %v", err)
	}

	var out fixtureRecord
	ok, err := s.Get(ctx, "broken", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("corrupt row reported present")
	}
}

func TestKVDelete(t *testing.T) {
	t.Parallel()
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	if err := s.Put(ctx, "gone-soon", fixtureRecord{Name: "x"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, "gone-soon"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var out fixtureRecord
	ok, err := s.Get(ctx, "gone-soon", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("deleted key reported present")
	}
}

func TestKVKeysPrefixNewestFirst(t *testing.T) {
	t.Parallel()
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	if err := s.Put(ctx, "draft:older", fixtureRecord{Name: "a"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := s.Put(ctx, "draft:newer", fixtureRecord{Name: "b"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "recent-access", fixtureRecord{Name: "c"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	keys, err := s.Keys(ctx, "draft:")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"draft:newer", "draft:older"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
}
