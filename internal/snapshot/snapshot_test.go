package snapshot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestPutAndGet(t *testing.T) {
	store := newTestStore(t)
	data := []byte("<section id=\"s32\">Earned income</section>")

	hash, err := store.Put(data)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}
	if hash != Hash(data) {
		t.Error("Put should return the content hash")
	}

	got, err := store.Get(hash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Get = %q, want %q", got, data)
	}
}

func TestPutIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	data := []byte("same content")

	first, err := store.Put(data)
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.Put(data)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("hashes differ: %s vs %s", first, second)
	}
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(strings.Repeat("ab", 32))
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestGetInvalidHash(t *testing.T) {
	store := newTestStore(t)

	for _, hash := range []string{"", "xyz", strings.Repeat("A", 64), "../../etc/passwd"} {
		if _, err := store.Get(hash); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("Get(%q) err = %v, want ErrInvalidHash", hash, err)
		}
	}
}

func TestExists(t *testing.T) {
	store := newTestStore(t)

	hash, err := store.Put([]byte("present"))
	if err != nil {
		t.Fatal(err)
	}
	if !store.Exists(hash) {
		t.Error("Exists should report a stored snapshot")
	}
	if store.Exists(strings.Repeat("cd", 32)) {
		t.Error("Exists should not report a missing snapshot")
	}
	if store.Exists("not-a-hash") {
		t.Error("Exists should reject an invalid hash")
	}
}

func TestBlobsAreCompressed(t *testing.T) {
	store := newTestStore(t)
	data := bytes.Repeat([]byte("the quick brown fox "), 500)

	hash, err := store.Put(data)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(store.root, "blobs", "blake3", hash[:2], hash+".xz")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("blob missing at %s: %v", path, err)
	}
	if info.Size() >= int64(len(data)) {
		t.Errorf("blob size %d not smaller than content %d", info.Size(), len(data))
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	store := newTestStore(t)

	hash, err := store.Put([]byte("original content"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Verify(hash); err != nil {
		t.Fatalf("Verify on intact blob: %v", err)
	}

	// Swap the blob for differently hashing content.
	other, err := store.Put([]byte("other content"))
	if err != nil {
		t.Fatal(err)
	}
	otherPath := filepath.Join(store.root, "blobs", "blake3", other[:2], other+".xz")
	victimPath := filepath.Join(store.root, "blobs", "blake3", hash[:2], hash+".xz")
	blob, err := os.ReadFile(otherPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(victimPath, blob, 0644); err != nil {
		t.Fatal(err)
	}

	if err := store.Verify(hash); err == nil {
		t.Error("Verify should detect a swapped blob")
	}
}
