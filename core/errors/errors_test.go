package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCitationSyntaxError(t *testing.T) {
	err := NewSyntax("26 UXC 32", "no grammar matched")

	if got := err.Error(); got != `cannot parse citation "26 UXC 32": no grammar matched` {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrSyntax) {
		t.Error("expected errors.Is(err, ErrSyntax)")
	}

	withGrammar := &CitationSyntaxError{Input: "bogus", Grammar: "usc", Message: "bad section token"}
	if got := withGrammar.Error(); got != `cannot parse citation "bogus" as usc: bad section token` {
		t.Errorf("Error() = %q", got)
	}
}

func TestRefResolutionError(t *testing.T) {
	err := NewResolution("section 12 of such Act", "no grammar matched")
	if !errors.Is(err, ErrResolution) {
		t.Error("expected errors.Is(err, ErrResolution)")
	}
	if got := err.Error(); got != `cannot resolve reference "section 12 of such Act": no grammar matched` {
		t.Errorf("Error() = %q", got)
	}

	// With a cause attached the sentinel must still match alongside it.
	cause := NewSyntax("section 12 of such Act", "no grammar matched")
	withCause := &RefResolutionError{Raw: "section 12 of such Act", Message: "marker did not parse", Err: cause}
	if !errors.Is(withCause, ErrResolution) {
		t.Error("expected errors.Is(withCause, ErrResolution)")
	}
	if !errors.Is(withCause, ErrSyntax) {
		t.Error("expected errors.Is(withCause, ErrSyntax) through the cause")
	}
}

func TestStorageWriteError(t *testing.T) {
	inner := errors.New("disk full")
	err := NewStorage("store", "statute/26/32", inner)

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is(err, inner)")
	}
	if got := err.Error(); got != "storage store failed for statute/26/32: disk full" {
		t.Errorf("Error() = %q", got)
	}

	// Without an underlying error the sentinel must still surface.
	bare := &StorageWriteError{Operation: "rebuild"}
	if !errors.Is(bare, ErrStorage) {
		t.Error("expected errors.Is(bare, ErrStorage)")
	}
}

func TestConverterUnavailableError(t *testing.T) {
	err := NewUnavailable("us-ca", "html")
	if got := err.Error(); got != "no converter registered for us-ca:html" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("expected errors.Is(err, ErrUnavailable)")
	}

	noFormat := NewUnavailable("uk", "")
	if got := noFormat.Error(); got != "no converter registered for jurisdiction uk" {
		t.Errorf("Error() = %q", got)
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("snapshot", "deadbeef")
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is(err, ErrNotFound)")
	}
	if got := err.Error(); got != "snapshot not found: deadbeef" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorsAs(t *testing.T) {
	var syntaxErr *CitationSyntaxError
	wrapped := fmt.Errorf("ingest failed: %w", NewSyntax("junk", "no grammar matched"))

	if !As(wrapped, &syntaxErr) {
		t.Fatal("expected errors.As to find CitationSyntaxError")
	}
	if syntaxErr.Input != "junk" {
		t.Errorf("Input = %q, want %q", syntaxErr.Input, "junk")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	base := errors.New("base")
	wrapped := Wrap(base, "outer")
	if wrapped.Error() != "outer: base" {
		t.Errorf("Wrap = %q", wrapped.Error())
	}
	if !Is(wrapped, base) {
		t.Error("wrapped error should match base")
	}
}
