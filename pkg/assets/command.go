package assets

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// DefaultTool is the object-store copy tool used when none is configured.
const DefaultTool = "gsutil"

// CommandFetcher shells out to "<Tool> cp <url> <destDir>".
type CommandFetcher struct {
	Tool string
}

func (f CommandFetcher) Fetch(ctx context.Context, url, destDir string) Result {
	tool := f.Tool
	if tool == "" {
		tool = DefaultTool
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, "cp", url, destDir)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := Result{}
	if err := cmd.Run(); err != nil {
		res.Err = fmt.Errorf("%s cp %s: %w", tool, url, err)
	}
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res
}
