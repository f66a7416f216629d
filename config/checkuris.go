package config

import "strings"

// CheckURIs verifies that every URI in files and archives carries a
// non-empty fragment and that fragments are pairwise distinct,
// case-insensitively, across both slices combined. Callers use this
// before job submission when symlinks are requested; empty inputs are
// trivially valid.
func CheckURIs(files, archives []string) bool {
	seen := make(map[string]struct{}, len(files)+len(archives))
	for _, raw := range append(append([]string{}, files...), archives...) {
		frag := fragmentOf(raw)
		if frag == "" {
			return false
		}
		key := strings.ToLower(frag)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

// fragmentOf returns the portion of raw after the first '#', or "" if
// there is none. It intentionally avoids full URI parsing: callers of
// CheckURIs run it over the raw strings from mapred.cache.files and
// mapred.cache.archives before those strings are otherwise validated.
func fragmentOf(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		return raw[i+1:]
	}
	return ""
}
