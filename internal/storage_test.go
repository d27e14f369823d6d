package internal

import (
	"errors"
	"reflect"
	"testing"

	"github.com/iksnae/sitechat/testutil"
)

func TestNewStorage(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)

	storage := NewStorage(db)
	if storage == nil {
		t.Fatal("NewStorage() returned nil")
	}
	if storage.db != db {
		t.Error("NewStorage() did not set database correctly")
	}
}

func TestStorage_Get(t *testing.T) {
	db := testutil.CreateTestDB(t)
	storage := NewStorage(db)

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"present", "openai_api_key", "sk-test"},
		{"missing reads as empty", "groq_api_key", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestStorage_SetOverwrites(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	storage := NewStorage(db)

	if err := storage.Set("k", "one"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := storage.Set("k", "two"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// The write is visible to a raw query immediately
	if got := testutil.ReadKV(t, db, "k"); got != "two" {
		t.Errorf("stored value = %q, want two", got)
	}
}

func TestStorage_DeleteKeysClear(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	storage := NewStorage(db)

	testutil.InsertKV(t, db, "b", "2")
	testutil.InsertKV(t, db, "a", "1")
	testutil.InsertKV(t, db, "c", "3")

	if err := storage.Delete("b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := storage.Delete("missing"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}

	keys, err := storage.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"a", "c"}) {
		t.Errorf("Keys() = %v, want [a c]", keys)
	}

	if err := storage.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	keys, _ = storage.Keys()
	if len(keys) != 0 {
		t.Errorf("Keys() after Clear = %v, want none", keys)
	}
}

func TestStorage_ClosedDatabase(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	storage := NewStorage(db)
	db.Close()

	_, err := storage.Get("k")
	if err == nil {
		t.Fatal("Get() on closed db should fail")
	}
	var storageErr *StorageError
	if !errors.As(err, &storageErr) || storageErr.Op != "get" {
		t.Errorf("Get() error = %v, want StorageError op get", err)
	}
}
