package storage

import "testing"

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()

	if _, ok, err := kv.Get("missing"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}

	if err := kv.Put("progress", []byte(`{"1":{}}`)); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := kv.Put("progress", []byte(`{"2":{}}`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	v, ok, err := kv.Get("progress")
	if err != nil || !ok || string(v) != `{"2":{}}` {
		t.Fatalf("Get(progress) = %q, %v, %v", v, ok, err)
	}

	if err := kv.Delete("progress"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok, _ := kv.Get("progress"); ok {
		t.Error("key should be gone after Delete")
	}
	if err := kv.Delete("progress"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestMemoryKVCopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	buf := []byte("abc")
	kv.Put("k", buf)
	buf[0] = 'z'

	v, _, _ := kv.Get("k")
	if string(v) != "abc" {
		t.Errorf("stored value changed with the caller's buffer: %q", v)
	}
}

func TestNamespaceKV(t *testing.T) {
	exerciseKV(t, openTestStore(t).KV(LocalNamespace))
}

func TestNamespacesAreIsolated(t *testing.T) {
	store := openTestStore(t)
	ana, bo := store.KV("ana"), store.KV("bo")

	ana.Put("streak", []byte("3"))
	if _, ok, _ := bo.Get("streak"); ok {
		t.Error("namespaces should not share keys")
	}
	if v, ok, _ := ana.Get("streak"); !ok || string(v) != "3" {
		t.Errorf("ana's value = %q, %v", v, ok)
	}
}
