package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Tag is set at build time with -ldflags "-X .../version.Tag=v1.2.3".
var Tag string

type Info struct {
	Tag      string
	Revision string
	BuiltAt  time.Time
	Dirty    bool
}

// Read collects VCS settings embedded by the go command.
func Read() Info {
	info := Info{Tag: Tag}
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	for _, setting := range buildInfo.Settings {
		// https://pkg.go.dev/runtime/debug#BuildSetting
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				info.BuiltAt = t
			}
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		}
	}
	return info
}

func (i Info) String() string {
	// go run
	if i.Revision == "" {
		return "dev"
	}

	rev := i.Revision
	if len(rev) > 7 {
		rev = rev[:7]
	}
	s := strings.TrimSpace(fmt.Sprintf("%s %s", i.Tag, rev))
	if !i.BuiltAt.IsZero() {
		s += " at " + i.BuiltAt.Format(time.DateTime)
	}
	if i.Dirty {
		s += " dirty"
	}
	return s
}

func String() string {
	return Read().String()
}
