package cli

import (
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/partpick/internal/buildinfo"
)

const defaultModulePath = "github.com/five82/partpick"

type versionInfo struct {
	Version    string `json:"version" yaml:"version"`
	ModulePath string `json:"module_path" yaml:"module_path"`
	Commit     string `json:"commit,omitempty" yaml:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty" yaml:"commit_time,omitempty"`
	Modified   bool   `json:"modified" yaml:"modified"`
	GoVersion  string `json:"go_version" yaml:"go_version"`
	Platform   string `json:"platform" yaml:"platform"`
}

var readBuildInfo = debug.ReadBuildInfo

func newVersionCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show partpick version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := currentVersionInfo()
			p := newPrinter(cmd, flags.output)
			if !p.table() {
				return p.structured(info)
			}

			p.header("partpick " + info.Version)
			rows := [][2]string{{"module", info.ModulePath}}
			if info.Commit != "" {
				rows = append(rows, [2]string{"commit", info.Commit})
			}
			if info.CommitTime != "" {
				rows = append(rows, [2]string{"commit_time", info.CommitTime})
			}
			rows = append(rows,
				[2]string{"go", info.GoVersion},
				[2]string{"platform", info.Platform},
			)
			if info.Modified {
				rows = append(rows, [2]string{"modified", "true"})
			}
			p.rows(rows)
			return nil
		},
	}
}

func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := readBuildInfo()
	if ok && bi != nil {
		if bi.Main.Path != "" {
			info.ModulePath = bi.Main.Path
		}
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		info.Commit = buildSetting(bi, "vcs.revision")
		info.CommitTime = buildSetting(bi, "vcs.time")
		info.Modified = strings.EqualFold(buildSetting(bi, "vcs.modified"), "true")
	}

	// Link-time values win over what the toolchain recorded.
	if info.Version == "devel" && buildinfo.Version != "" {
		info.Version = buildinfo.Version
	}
	if buildinfo.Commit != "" {
		info.Commit = buildinfo.Commit
	}
	if buildinfo.Date != "" {
		info.CommitTime = buildinfo.Date
	}
	return info
}

func buildSetting(info *debug.BuildInfo, key string) string {
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}
