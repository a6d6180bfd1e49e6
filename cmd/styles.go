/*
Copyright © 2023 Zak Reynolds <zak.reynolds@zakjr.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zr3/rprompt/internal/prompt"
)

// stylesCmd represents the styles command
var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available prompt styles",
	Run: func(cmd *cobra.Command, args []string) {
		current := viper.GetString("style")
		for _, s := range prompt.Styles() {
			marker := "  "
			if string(s) == current {
				marker = "* "
			}
			fmt.Println(marker + string(s))
		}
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}
