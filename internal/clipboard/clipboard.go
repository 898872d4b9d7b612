// Package clipboard copies composed prompts to the system clipboard.
package clipboard

import (
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
)

// SuccessMessage is shown after a successful copy
const SuccessMessage = "Copied to clipboard!"

// Copier writes text to a clipboard
type Copier interface {
	Copy(text string) error
}

// ClipboardError represents an error when no clipboard utility is available
type ClipboardError struct {
	OS      string
	Message string
}

func (e *ClipboardError) Error() string {
	return e.Message
}

// NewClipboardError creates a new ClipboardError with installation instructions
func NewClipboardError() *ClipboardError {
	return &ClipboardError{
		OS:      runtime.GOOS,
		Message: "no clipboard utility found. " + GetInstallInstructions(),
	}
}

// System is the Copier backed by the OS clipboard
type System struct{}

// Copy copies text to the system clipboard unmodified
func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return apperrors.Wrap(NewClipboardError(), apperrors.ErrCodeClipboardUnavailable, "Clipboard is not available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeClipboardUnavailable, "Failed to copy to clipboard").
			WithDetails(err.Error())
	}
	return nil
}

// Copy copies text with the system clipboard
func Copy(text string) error {
	return System{}.Copy(text)
}

// CopyWithFallback copies text and returns a user-facing status message
func CopyWithFallback(c Copier, text string) (string, error) {
	if c == nil {
		c = System{}
	}
	if err := c.Copy(text); err != nil {
		return "", err
	}
	return SuccessMessage, nil
}

// IsClipboardAvailable reports whether a clipboard backend was found
func IsClipboardAvailable() bool {
	return !clipboard.Unsupported
}

// GetInstallInstructions returns platform-specific install hints
func GetInstallInstructions() string {
	switch runtime.GOOS {
	case "linux":
		return "Install one of:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "clip should be available by default on Windows"
	default:
		return fmt.Sprintf("clipboard not supported on %s", runtime.GOOS)
	}
}
