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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	termutil "github.com/andrew-d/go-termutil"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zr3/rprompt/internal/deliver"
	"zr3/rprompt/internal/gemini"
	"zr3/rprompt/internal/imaging"
	"zr3/rprompt/internal/prompt"
)

var cfgFile string
var openFlag bool

var errMissingCredential = errors.New("GEMINI_API_KEY not set, add it to ~/.env")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rprompt <image-path>",
	Short: "Generate a descriptive prompt from an image",
	Long: `rprompt sends an image to Gemini and prints a text prompt that could
be used to recreate it. Pass '-' as the path to read the image from stdin.

The API key is read from GEMINI_API_KEY in ~/.env or the environment;
defaults like the model and style live in ~/.config/rprompt/config.yml.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		checkError(generate(args[0], os.Stdin, os.Stdout), true)
	},
}

// generate runs one image through the whole flow: load, credential gate,
// model call, delivery. Returning an error leaves exiting to the caller so
// the flow stays testable.
func generate(path string, stdin io.Reader, stdout io.Writer) error {
	quiet := viper.GetBool("quiet")

	// bad style names fail before any file or network I/O
	style, err := prompt.ParseStyle(viper.GetString("style"))
	if err != nil {
		return fmt.Errorf("%w (run 'rprompt styles' to list them)", err)
	}

	// load and validate the image
	var img *imaging.Image
	if path == "-" && !termutil.Isatty(os.Stdin.Fd()) {
		img, err = imaging.LoadReader(bufio.NewReader(stdin))
	} else {
		img, err = imaging.Load(path)
	}
	if err != nil {
		return err
	}

	// a missing credential is fatal before the network call is attempted
	apiKey := viper.GetString("gemini-api-key")
	if apiKey == "" {
		return errMissingCredential
	}

	client := gemini.NewClient(viper.GetString("model"), apiKey)
	generator := prompt.NewGenerator(client)

	// spin while the blocking call is in flight
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond)
	if !quiet && termutil.Isatty(os.Stdout.Fd()) {
		s.Suffix = " analyzing image with " + client.Model()
		s.Color("cyan")
		s.Start()
	}
	text, err := generator.Generate(context.Background(), img, style)
	if s.Active() {
		s.Stop()
	}
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintln(stdout, color.GreenString("✔")+" done")
		fmt.Fprintln(stdout)
	}

	d := deliver.New()
	d.Out = stdout
	err = d.Deliver(text, deliver.Options{
		Style:     string(style),
		Image:     filepath.Base(img.Path),
		Model:     client.Model(),
		File:      viper.GetString("output"),
		JSON:      viper.GetBool("json"),
		Clipboard: openFlag,
		Browser:   openFlag,
	})
	if err != nil {
		return err
	}

	if quiet {
		return nil
	}
	if openFlag {
		fmt.Fprintln(stdout, "\nprompt copied to clipboard! paste it at "+deliver.StudioURL)
	} else {
		fmt.Fprintln(stdout, "\nuse the prompt at "+deliver.StudioURL+" or rerun with --open")
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/rprompt/config.yml)")

	rootCmd.PersistentFlags().Bool("quiet", false, "hide the CLI ux and only show the generated prompt")
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.Flags().BoolVar(&openFlag, "open", false, "copy the prompt to the clipboard and open Google AI Studio")

	rootCmd.Flags().String("style", "", "prompt style: detailed, concise, artistic or technical")
	viper.BindPFlag("style", rootCmd.Flags().Lookup("style"))

	rootCmd.Flags().StringP("output", "o", "", "also write the prompt to this file")
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))

	rootCmd.Flags().Bool("json", false, "write a JSON record instead of plain text")
	viper.BindPFlag("json", rootCmd.Flags().Lookup("json"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	// secrets live in ~/.env, absence is fine until the key is needed
	godotenv.Load(filepath.Join(home, ".env"))

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory under .config/rprompt.
		viper.AddConfigPath(filepath.Join(home, ".config", "rprompt"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetDefault("model", gemini.DefaultModel)
	viper.SetDefault("style", string(prompt.StyleDetailed))

	viper.AutomaticEnv() // read in environment variables that match
	viper.BindEnv("gemini-api-key", "GEMINI_API_KEY")

	// the config file is optional, only a broken one is worth a warning
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "could not load config file")
		}
	}
}

func checkError(err error, isFatal bool) {
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("✖")+" "+err.Error())
		if isFatal {
			os.Exit(1)
		}
	}
}
