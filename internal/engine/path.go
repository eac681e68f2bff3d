package engine

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// NormalizeRelPath canonicalizes a change path and rejects anything that
// could escape the repository root at the string level.
//
// Rejected: empty paths, absolute paths (either platform syntax), and
// paths whose cleaned form is or starts with a parent-directory segment.
// Separators are normalized to forward slashes.
func NormalizeRelPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", newError(CodePathEscape, p, "empty path")
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") || strings.HasPrefix(p, "\\") {
		return "", newError(CodePathEscape, p, "absolute paths are not allowed")
	}
	// Windows drive-letter syntax is absolute regardless of host platform.
	if len(p) >= 2 && p[1] == ':' &&
		(('a' <= p[0] && p[0] <= 'z') || ('A' <= p[0] && p[0] <= 'Z')) {
		return "", newError(CodePathEscape, p, "absolute paths are not allowed")
	}

	norm := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if norm == ".." || strings.HasPrefix(norm, "../") {
		return "", newError(CodePathEscape, p, "path escapes repository root")
	}
	if norm == "." {
		return "", newError(CodePathEscape, p, "path resolves to repository root itself")
	}
	return norm, nil
}

// ResolveUnderRoot joins a normalized relative path onto the repository
// root and confirms the resolved absolute path still has the root as a
// prefix. This catches symlink and .. tricks the string-level check in
// NormalizeRelPath cannot see.
func ResolveUnderRoot(root, rel string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", wrapIO(root, err)
	}
	if resolved, err := filepath.EvalSymlinks(rootAbs); err == nil {
		rootAbs = resolved
	}

	abs := filepath.Join(rootAbs, filepath.FromSlash(rel))

	// Resolve symlinks on the deepest existing ancestor so a link inside
	// the tree cannot point the final path outside it. The target itself
	// may not exist yet (create, rename destination).
	resolved := abs
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		resolved = real
	} else if os.IsNotExist(err) {
		dir, rest := filepath.Dir(abs), filepath.Base(abs)
		for {
			real, derr := filepath.EvalSymlinks(dir)
			if derr == nil {
				resolved = filepath.Join(real, rest)
				break
			}
			if !os.IsNotExist(derr) {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			rest = filepath.Join(filepath.Base(dir), rest)
			dir = parent
		}
	}

	relBack, err := filepath.Rel(rootAbs, resolved)
	if err != nil || relBack == ".." || strings.HasPrefix(relBack, ".."+string(filepath.Separator)) {
		return "", newError(CodePathEscape, rel, "resolved path escapes repository root")
	}
	return abs, nil
}

// SafePath runs both validation stages for one change path and returns the
// absolute on-disk path. Invoked for every op, including rename's new_path,
// before any filesystem access.
func SafePath(root, p string) (string, error) {
	rel, err := NormalizeRelPath(p)
	if err != nil {
		return "", err
	}
	return ResolveUnderRoot(root, rel)
}
