// Package snapshot provides content-addressed storage for raw source
// snapshots. Every fetched document is stored by its BLAKE3 hash before
// conversion, ensuring deduplication and letting an ingest run be replayed
// or audited against the exact bytes it saw. Blobs are xz-compressed on
// disk; hashes always address the uncompressed content.
package snapshot

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// ErrSnapshotNotFound is returned when no snapshot exists for the hash.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrInvalidHash is returned when a hash string is not a valid BLAKE3 hex string.
var ErrInvalidHash = errors.New("invalid hash format")

// hashPattern matches a valid lowercase BLAKE3 hex string (64 characters).
var hashPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Store is a content-addressed snapshot store rooted at a directory.
type Store struct {
	root string
}

// NewStore creates a snapshot store at the given root directory. The blob
// directory structure is created if it doesn't exist.
func NewStore(root string) (*Store, error) {
	blobDir := filepath.Join(root, "blobs", "blake3")
	if err := os.MkdirAll(blobDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &Store{root: root}, nil
}

// Hash computes the BLAKE3 hash of the given data without storing it.
func Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Put stores the given data and returns its BLAKE3 hash. Storing the same
// content twice is a no-op returning the same hash.
func (s *Store) Put(data []byte) (string, error) {
	hash := Hash(data)

	blobPath := s.pathForHash(hash)
	if _, err := os.Stat(blobPath); err == nil {
		return hash, nil
	}

	prefixDir := filepath.Dir(blobPath)
	if err := os.MkdirAll(prefixDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create prefix directory: %w", err)
	}

	tempFile, err := os.CreateTemp(prefixDir, ".blob-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	w, err := xz.NewWriter(tempFile)
	if err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to create compressor: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := w.Close(); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to finish compression: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	// Rename to final path (atomic on POSIX)
	if err := os.Rename(tempPath, blobPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to rename blob: %w", err)
	}

	return hash, nil
}

// Get retrieves and decompresses the snapshot with the given BLAKE3 hash.
// Returns ErrSnapshotNotFound if no snapshot exists, ErrInvalidHash if the
// hash format is invalid.
func (s *Store) Get(hash string) ([]byte, error) {
	if !isValidHash(hash) {
		return nil, ErrInvalidHash
	}

	f, err := os.Open(s.pathForHash(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open compressed blob: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	// Verify content integrity on the way out.
	if got := Hash(data); got != hash {
		return nil, fmt.Errorf("blob %s is corrupt: content hashes to %s", hash, got)
	}
	return data, nil
}

// Exists checks if a snapshot with the given hash exists in the store.
func (s *Store) Exists(hash string) bool {
	if !isValidHash(hash) {
		return false
	}
	_, err := os.Stat(s.pathForHash(hash))
	return err == nil
}

// Verify re-reads a stored snapshot and checks it against its hash.
func (s *Store) Verify(hash string) error {
	_, err := s.Get(hash)
	return err
}

// pathForHash returns the blob path: <root>/blobs/blake3/<first2>/<hash>.xz
func (s *Store) pathForHash(hash string) string {
	return filepath.Join(s.root, "blobs", "blake3", hash[:2], hash+".xz")
}

func isValidHash(hash string) bool {
	return hashPattern.MatchString(hash)
}
