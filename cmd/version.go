// Copyright 2025-2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/finemg/fm-api/pkginfo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Long:  `Print the fm-api version, commit and build date`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionString())
	},
}

// versionString assembles the one-line build description. The commit and
// date are stamped through ldflags; an unstamped binary falls back to the
// VCS revision embedded in the module build info.
func versionString() string {
	commit := pkginfo.CommitHash
	if commit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range bi.Settings {
				if setting.Key == "vcs.revision" {
					commit = setting.Value
				}
			}
		}
	}
	if commit == "" {
		commit = "unknown"
	}

	date := pkginfo.BuildDate
	if date == "" {
		date = "unknown"
	}

	return fmt.Sprintf("%s v%s (commit %s, built %s, %s %s/%s)",
		pkginfo.ProgramName, pkginfo.Version, commit, date,
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
