// Package version holds build metadata injected via -ldflags. Unset fields
// fall back to development defaults.
package version

var (
	// Version is the release tag, e.g. v1.2.3. Empty for dev builds.
	Version = ""
	// Commit is the short git SHA of the build.
	Commit = ""
	// Dirty is "dirty" when the tree had uncommitted changes at build time.
	Dirty = ""
)

// String returns the release tag, or "dev-<sha>" for untagged builds with a
// trailing "*" when the tree was dirty. With no metadata at all it returns
// "dev".
func String() string {
	if Version != "" {
		return Version
	}
	if Commit != "" {
		s := "dev-" + Commit
		if Dirty == "dirty" {
			s += "*"
		}
		return s
	}
	return "dev"
}
