package vm

import (
	"errors"
	"testing"
)

func TestProgramStoreRoundTrip(t *testing.T) {
	vm := New()
	store, err := OpenProgramStore(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	b := NewBuilder("stored", 0)
	b.EmitConstant(FromInt(42))
	b.EmitReturn()
	fn := b.Build()

	hash, err := store.Put(vm, fn)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("hash %q is not a hex SHA-256", hash)
	}

	got, err := store.Get(vm, hash)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "stored" || string(got.Code) != string(fn.Code) {
		t.Error("stored program changed on the way back")
	}

	// The loaded program still runs.
	if result := vm.ExecuteBytecode(got); result != FromInt(42) {
		t.Errorf("result = %s, want 42", vm.Format(result))
	}
}

func TestProgramStoreIsContentAddressed(t *testing.T) {
	vm := New()
	store, err := OpenProgramStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	b := NewBuilder("dup", 0)
	b.EmitConstant(True)
	b.EmitReturn()
	fn := b.Build()

	h1, err := store.Put(vm, fn)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := store.Put(vm, fn)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("same program hashed twice: %s vs %s", h1, h2)
	}

	infos, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 {
		t.Errorf("store has %d rows, want 1", len(infos))
	}
	if infos[0].Hash != h1 || infos[0].Name != "dup" {
		t.Errorf("listed %+v", infos[0])
	}
}

func TestProgramStoreMiss(t *testing.T) {
	vm := New()
	store, err := OpenProgramStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, err = store.Get(vm, "deadbeef")
	if !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("err = %v, want ErrProgramNotFound", err)
	}
}
