package store

import (
	"strings"

	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
)

const markerExt = ".txt"

// MarkerFilename returns "<type>_<hash>.txt" for key.
func MarkerFilename(key *cachekey.CacheKey) string {
	return key.String() + markerExt
}

// OutputFilename returns "<type>_<hash>_<outputName><ext>" for key and a
// logical output name. ext is expected to be dot-prefixed (e.g. ".jar");
// outputName must not contain a path separator — callers are responsible
// for that invariant since it is a property of the node's declared outputs,
// not something this layer can repair.
func OutputFilename(key *cachekey.CacheKey, outputName, ext string) string {
	return key.String() + "_" + outputName + ext
}

// IsMarkerFilename reports whether filename is the marker file for the
// cache-key prefix it starts with — i.e. the prefix is immediately
// followed by ".txt" and nothing else.
func IsMarkerFilename(filename, keyPrefix string) bool {
	return filename == keyPrefix+markerExt
}

// TrimOutputName strips the "<type>_<hash>_" prefix from filename, leaving
// "<outputName><ext>", given the already-parsed keyPrefix. Returns ok=false
// if filename isn't a "<prefix>_..." shape (i.e. it's the marker itself or
// malformed).
func TrimOutputName(filename, keyPrefix string) (rest string, ok bool) {
	suffix := strings.TrimPrefix(filename, keyPrefix+"_")
	if suffix == filename {
		return "", false
	}
	return suffix, true
}
