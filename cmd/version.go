package cmd

import (
	"fmt"

	"github.com/haierkeys/fast-note-board/internal/app"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print out version info and exit. // 打印版本信息并退出。",
	Run: func(cmd *cobra.Command, args []string) {
		v := app.CanonicalVersion(app.Version)
		if v == "" {
			v = "v" + app.Version
		}
		fmt.Printf("%s ( Git:%s ) BuildTime:%s\n", v, app.GitTag, app.BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
