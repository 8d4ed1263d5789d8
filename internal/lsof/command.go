package lsof

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/mrz1836/opened/internal/constants"
	openederrors "github.com/mrz1836/opened/internal/errors"
)

// RunCommand executes name directly, without a shell, so paths are passed as
// discrete arguments and can never be interpreted as shell syntax.
// Stdout beyond LsofMaxOutputBytes is treated as a failure.
func RunCommand(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- fixed binary, paths passed as argv without a shell

	stdout := &cappedBuffer{limit: constants.LsofMaxOutputBytes}
	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return res, ctx.Err()
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, err
	}

	if stdout.overflow {
		return res, fmt.Errorf("%w: output exceeds %d bytes", openederrors.ErrLsofFailed, constants.LsofMaxOutputBytes)
	}
	return res, nil
}

// cappedBuffer keeps at most limit bytes and records whether more arrived.
// It never reports a short write, so lsof is not killed by a broken pipe.
type cappedBuffer struct {
	bytes.Buffer

	limit    int
	overflow bool
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	room := c.limit - c.Len()
	if room <= 0 {
		c.overflow = len(p) > 0 || c.overflow
		return len(p), nil
	}
	if len(p) > room {
		c.overflow = true
		c.Buffer.Write(p[:room])
		return len(p), nil
	}
	return c.Buffer.Write(p)
}
