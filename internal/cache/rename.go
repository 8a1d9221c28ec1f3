package cache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/google/uuid"
)

// atomicMove renames src to dst, replacing dst if it exists. If the rename
// crosses a filesystem boundary (EXDEV), it falls back to copy+fsync+unlink:
// the copy lands at a uuid-named scratch file next to dst so two concurrent
// publishers never collide on the scratch name, then the scratch file is
// renamed onto dst (still atomic — only the initial copy is not).
func atomicMove(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("cache: rename %s to %s: %w", src, dst, err)
	}

	scratch := filepath.Join(filepath.Dir(dst), "."+uuid.NewString()+".tmp")
	if err := copyFileFsync(src, scratch); err != nil {
		_ = os.Remove(scratch)
		return fmt.Errorf("cache: cross-device copy %s to %s: %w", src, scratch, err)
	}
	if err := os.Rename(scratch, dst); err != nil {
		_ = os.Remove(scratch)
		return fmt.Errorf("cache: finalising cross-device move to %s: %w", dst, err)
	}
	_ = os.Remove(src)
	return nil
}

// isCrossDevice reports whether err is the "invalid cross-device link"
// error a rename returns when src and dst are on different filesystems.
func isCrossDevice(err error) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, syscall.EXDEV)
	}
	return errors.Is(err, syscall.EXDEV)
}

// copyFileFsync copies src to dst, fsyncing the destination before closing
// it so the bytes are durable before the caller renames it into place.
func copyFileFsync(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
