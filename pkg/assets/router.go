package assets

import (
	"context"
	"fmt"
	"strings"
)

// Router dispatches a fetch on the URL scheme. URLs with a scheme not in
// Schemes go to Default.
type Router struct {
	Schemes map[string]Fetcher
	Default Fetcher
}

// NewRouter sends s3:// URLs to the SDK fetcher and everything else
// (gs://, https://, local paths) to the copy tool.
func NewRouter(tool string, s3f *S3Fetcher) Router {
	r := Router{
		Schemes: make(map[string]Fetcher),
		Default: CommandFetcher{Tool: tool},
	}
	if s3f != nil {
		r.Schemes["s3"] = s3f
	}
	return r
}

func scheme(url string) string {
	if s, _, ok := strings.Cut(url, "://"); ok {
		return strings.ToLower(s)
	}
	return ""
}

func (r Router) Fetch(ctx context.Context, url, destDir string) Result {
	if f, ok := r.Schemes[scheme(url)]; ok && f != nil {
		return f.Fetch(ctx, url, destDir)
	}
	if r.Default == nil {
		return commandFailure(fmt.Errorf("no fetcher for %q", url))
	}
	return r.Default.Fetch(ctx, url, destDir)
}
