//go:build windows

package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"

	"github.com/mrz1836/opened/internal/constants"
	openederrors "github.com/mrz1836/opened/internal/errors"
)

// holdExclusive opens path with no sharing, the way another process would
// hold a file it does not want touched.
func holdExclusive(t *testing.T, path string) windows.Handle {
	t.Helper()
	name, err := windows.UTF16PtrFromString(path)
	require.NoError(t, err)
	h, err := windows.CreateFile(name, windows.GENERIC_READ, 0, nil, windows.OPEN_EXISTING, windows.FILE_ATTRIBUTE_NORMAL, 0)
	require.NoError(t, err)
	return h
}

func newFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fixture"), 0o600))
	return path
}

func TestNew_Windows(t *testing.T) {
	t.Parallel()

	assert.IsType(t, NativeProbe{}, New(Options{}))
	assert.IsType(t, NativeProbe{}, New(Options{Advisory: true}))
	assert.Equal(t, "native", Default().Name())
}

func TestNativeProbe_AvailableLeavesNoHandle(t *testing.T) {
	t.Parallel()

	path := newFixture(t, "free.txt")
	o := NativeProbe{}.Probe(path)

	assert.Equal(t, StatusAvailable, o.Status)
	assert.Equal(t, 0, o.ResultCode())
	require.NoError(t, os.Rename(path, path+".moved"))
	require.NoError(t, os.Remove(path+".moved"))
}

func TestNativeProbe_LockedWhileHeldThenAvailable(t *testing.T) {
	t.Parallel()

	path := newFixture(t, "locked.txt")
	h := holdExclusive(t, path)

	o := NativeProbe{}.Probe(path)
	assert.Equal(t, StatusLocked, o.Status)
	assert.Equal(t, constants.ErrorSharingViolation, o.ResultCode())

	require.NoError(t, windows.CloseHandle(h))

	o = NativeProbe{}.Probe(path)
	assert.Equal(t, StatusAvailable, o.Status)
	assert.Equal(t, 0, o.ResultCode())
}

func TestNativeProbe_SharedReaderStillLocks(t *testing.T) {
	t.Parallel()

	path := newFixture(t, "reader.txt")
	f, err := os.Open(path) // Go opens with FILE_SHARE_READ|FILE_SHARE_WRITE
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, StatusLocked, NativeProbe{}.Probe(path).Status)
}

func TestNativeProbe_Missing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.txt")
	o := NativeProbe{}.Probe(missing)

	assert.Equal(t, StatusError, o.Status)
	assert.Equal(t, constants.ErrorFileNotFound, o.Code)
	require.ErrorIs(t, o.Err, openederrors.ErrFileNotFound)

	_, err := os.Stat(missing)
	require.ErrorIs(t, err, os.ErrNotExist, "probe must never create the file")
}

func TestNativeProbe_EncodingFailures(t *testing.T) {
	t.Parallel()

	t.Run("invalid utf-8", func(t *testing.T) {
		t.Parallel()
		o := NativeProbe{}.Probe("C:\\bad\xff.txt")
		assert.Equal(t, StatusError, o.Status)
		assert.Equal(t, constants.ErrorNoUnicodeTranslation, o.Code)
		require.ErrorIs(t, o.Err, openederrors.ErrEncoding)
	})

	t.Run("interior NUL", func(t *testing.T) {
		t.Parallel()
		o := NativeProbe{}.Probe("C:\\bad\x00name.txt")
		assert.Equal(t, constants.ErrorInvalidName, o.Code)
		require.ErrorIs(t, o.Err, openederrors.ErrEncoding)
	})

	t.Run("trailing terminator accepted", func(t *testing.T) {
		t.Parallel()
		path := newFixture(t, "terminated.txt")
		assert.Equal(t, StatusAvailable, NativeProbe{}.Probe(path+"\x00").Status)
	})
}

func TestLongPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"drive path", `C:\dir\file.txt`, `\\?\C:\dir\file.txt`},
		{"cleans dot segments", `C:\dir\..\file.txt`, `\\?\C:\file.txt`},
		{"forward slashes", `C:/dir/file.txt`, `\\?\C:\dir\file.txt`},
		{"unc path", `\\server\share\file.txt`, `\\?\UNC\server\share\file.txt`},
		{"already prefixed", `\\?\C:\file.txt`, `\\?\C:\file.txt`},
		{"relative unchanged", `dir\file.txt`, `dir\file.txt`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, longPath(tc.in))
		})
	}
}

func TestNativeProbe_LongPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	deep := dir
	for len(deep) < 300 {
		deep = filepath.Join(deep, "abcdefghijklmnopqrstuvwxyz")
	}
	require.NoError(t, os.MkdirAll(deep, 0o750))
	path := filepath.Join(deep, "file.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	assert.Equal(t, StatusAvailable, NativeProbe{}.Probe(path).Status)
}
