package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
)

// invalidNameChars are rejected on at least one common filesystem.
const invalidNameChars = `<>:"|?*`

// ValidatePath rejects empty paths, NUL bytes and overlong paths.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}

	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}

	return nil
}

// ValidateName ensures a name can be used for a new file or folder inside
// the current directory. Names must:
//   - Not be empty or only whitespace
//   - Not be . or ..
//   - Not contain path separators
//   - Not contain control characters or any of <>:"|?*
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrInvalidName, "name cannot be empty")
	}

	if name == "." || name == ".." {
		return errors.Newf(errors.ErrInvalidName, "name cannot be %q", name).
			WithDetail("name", name)
	}

	if strings.ContainsAny(name, `/\`) {
		return errors.Newf(errors.ErrInvalidName, "name %q cannot contain path separators", name).
			WithDetail("name", name)
	}

	if strings.ContainsAny(name, invalidNameChars) {
		return errors.Newf(errors.ErrInvalidName,
			"name %q contains invalid characters: %s", name, invalidNameChars).
			WithDetail("name", name)
	}

	for _, r := range name {
		if r < 32 || r == 127 {
			return errors.Newf(errors.ErrInvalidName, "name %q contains control characters", name).
				WithDetail("name", name)
		}
	}

	return nil
}

// IsWithin reports whether path is root or lies below it. Both paths must
// be clean and absolute.
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// RelativeTo returns path relative to root using forward slashes, "." for
// the root itself.
func RelativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// IsHiddenName returns true for dot-prefixed names. The Windows hidden
// attribute is checked by the lister, which has the file info at hand.
func IsHiddenName(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// Depth returns the number of path elements between root and path.
func Depth(root, path string) int {
	rel := RelativeTo(root, path)
	if rel == "." || rel == "" {
		return 0
	}
	return strings.Count(rel, "/") + 1
}
