package clipboard

import (
	"errors"
	"runtime"
	"strings"
	"testing"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
)

type recordingCopier struct {
	text string
	err  error
}

func (r *recordingCopier) Copy(text string) error {
	r.text = text
	return r.err
}

func TestClipboardError(t *testing.T) {
	err := NewClipboardError()

	if err.OS != runtime.GOOS {
		t.Errorf("Expected OS to be %s, got %s", runtime.GOOS, err.OS)
	}

	if err.Error() == "" {
		t.Error("Error message should not be empty")
	}

	var clipErr *ClipboardError
	if !errors.As(err, &clipErr) {
		t.Error("Should be able to unwrap as ClipboardError")
	}
}

func TestCopyWithFallbackPassesTextThrough(t *testing.T) {
	text := "User context: x\n\nDo y\n"
	rec := &recordingCopier{}

	msg, err := CopyWithFallback(rec, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != SuccessMessage {
		t.Errorf("Expected %q, got %q", SuccessMessage, msg)
	}
	if rec.text != text {
		t.Errorf("Expected text to be copied unmodified, got %q", rec.text)
	}
}

func TestCopyWithFallbackReturnsError(t *testing.T) {
	rec := &recordingCopier{err: apperrors.NewAppError(apperrors.ErrCodeClipboardUnavailable, "no clipboard")}

	msg, err := CopyWithFallback(rec, "x")
	if err == nil {
		t.Fatal("Expected error")
	}
	if msg != "" {
		t.Errorf("Expected empty message, got %q", msg)
	}
	if !apperrors.IsCode(err, apperrors.ErrCodeClipboardUnavailable) {
		t.Errorf("Expected CLIPBOARD_UNAVAILABLE, got %v", err)
	}
}

func TestGetInstallInstructions(t *testing.T) {
	instructions := GetInstallInstructions()
	if instructions == "" {
		t.Error("Install instructions should not be empty")
	}

	if runtime.GOOS == "linux" && !strings.Contains(instructions, "xclip") {
		t.Error("Linux instructions should mention xclip")
	}
}
