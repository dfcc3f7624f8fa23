package assets

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// consensusRe captures the file path below a workflow task directory, so
// ".../call-consensus/WA0000001.consensus.fa" maps to WA0000001.consensus.fa.
var consensusRe = regexp.MustCompile(`.*/(?:call-consensus|cacheCopy)/(.*)`)

// ConsensusPath returns where a downloaded consensus file lives locally.
// The second result is false when the URL is empty or names no file.
func ConsensusPath(assemblyDir, url string) (string, bool) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", false
	}

	var rel string
	if m := consensusRe.FindStringSubmatch(url); len(m) == 2 {
		rel = m[1]
	} else {
		rel = path.Base(url)
	}
	if rel == "" || rel == "." || rel == "/" {
		return "", false
	}
	return filepath.Join(assemblyDir, filepath.FromSlash(rel)), true
}
