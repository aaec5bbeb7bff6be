// Command mdrender renders Markdown to HTML on top of the markdown
// package, wiring up the engine's extension bits and the smartypants
// post-processor as CLI flags.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	markdown "github.com/quxiaofeng/sd-markdown"
)

var (
	configFile      string
	noIntraEmphasis bool
	tables          bool
	fencedCode      bool
	autolink        bool
	strikethrough   bool
	spaceHeaders    bool
	superscript     bool
	laxSpacing      bool
	smarty          bool
	maxNesting      int
	xhtml           bool
	safelink        bool
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:   "mdrender [file]",
	Short: "Render Markdown to HTML",
	Long:  "mdrender drives the markdown engine's default HTML renderer over a file or stdin.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  run,
}

func main() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file (default search: $HOME/.mdrender.yaml)")
	rootCmd.Flags().BoolVar(&noIntraEmphasis, "no-intra-emphasis", true, "disable emphasis inside words")
	rootCmd.Flags().BoolVar(&tables, "tables", true, "enable pipe tables")
	rootCmd.Flags().BoolVar(&fencedCode, "fenced-code", true, "enable fenced code blocks")
	rootCmd.Flags().BoolVar(&autolink, "autolink", true, "enable bare URL/email/www autolinking")
	rootCmd.Flags().BoolVar(&strikethrough, "strikethrough", true, "enable ~~strikethrough~~")
	rootCmd.Flags().BoolVar(&spaceHeaders, "space-headers", false, "require a space after '#' in ATX headers")
	rootCmd.Flags().BoolVar(&superscript, "superscript", false, "enable ^superscript")
	rootCmd.Flags().BoolVar(&laxSpacing, "lax-spacing", false, "end paragraphs at a directly following list, block HTML or code fence")
	rootCmd.Flags().BoolVar(&smarty, "smartypants", false, "postprocess output with smart typography")
	rootCmd.Flags().IntVar(&maxNesting, "max-nesting", 16, "maximum combined block/span recursion depth")
	rootCmd.Flags().BoolVar(&xhtml, "xhtml", false, "close void elements XHTML-style")
	rootCmd.Flags().BoolVar(&safelink, "safelink", false, "drop links whose scheme isn't on the safe list")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log warnings for BOM strips and nesting truncation")

	_ = viper.BindPFlag("tables", rootCmd.Flags().Lookup("tables"))
	_ = viper.BindPFlag("fencedCode", rootCmd.Flags().Lookup("fenced-code"))
	_ = viper.BindPFlag("autolink", rootCmd.Flags().Lookup("autolink"))
	_ = viper.BindPFlag("smartypants", rootCmd.Flags().Lookup("smartypants"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	initConfig()
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "mdrender"})

	var input []byte
	var err error
	if len(args) == 1 {
		input, err = os.ReadFile(args[0])
	} else {
		input, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("mdrender: reading input: %w", err)
	}

	exts := extensionsFromFlags()
	renderer := markdown.NewHTMLRenderer(rendererFlags())
	engine := markdown.New(exts, maxNesting, renderer)
	if verbose {
		engine.Logger = func(format string, a ...any) {
			logger.Warnf(format, a...)
		}
	}

	out := engine.Render(input)
	if viper.GetBool("smartypants") {
		out = markdown.SmartyPants(out)
	}

	if _, err := os.Stdout.Write(out); err != nil {
		return err
	}
	if verbose {
		logger.Infof("rendered %s of input into %s of HTML",
			humanize.Bytes(uint64(len(input))), humanize.Bytes(uint64(len(out))))
	}
	return nil
}

func extensionsFromFlags() int {
	var exts int
	if noIntraEmphasis {
		exts |= markdown.NoIntraEmphasis
	}
	if viper.GetBool("tables") {
		exts |= markdown.Tables
	}
	if viper.GetBool("fencedCode") {
		exts |= markdown.FencedCode
	}
	if viper.GetBool("autolink") {
		exts |= markdown.Autolink
	}
	if strikethrough {
		exts |= markdown.Strikethrough
	}
	if spaceHeaders {
		exts |= markdown.SpaceHeaders
	}
	if superscript {
		exts |= markdown.Superscript
	}
	if laxSpacing {
		exts |= markdown.LaxSpacing
	}
	return exts
}

func rendererFlags() int {
	var flags int
	if xhtml {
		flags |= markdown.HTMLUseXHTML
	}
	if safelink {
		flags |= markdown.HTMLSafelink
	}
	return flags
}

func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".mdrender")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("mdrender")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
