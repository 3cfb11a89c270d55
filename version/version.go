package version

import "runtime/debug"

// Version can be set at build time:
// go build -ldflags "-X github.com/chartpreview/soundgen/version.Version=$(git describe --dirty)" ./cmd/soundgen
var Version string

// Hash is the short vcs revision the binary was built from, with a -dirty
// suffix for uncommitted changes. Empty when built outside a checkout.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision string
	modified := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		return revision + "-dirty"
	}
	return revision
}()

// VersionOrHash is what -v prints: Version if set, the module version when
// installed with go install, otherwise Hash.
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Hash
}()
