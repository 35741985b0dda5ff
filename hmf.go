/*hmf computes the halo mass function dn/dlnM and the quantities it is built
from on the command line.*/
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/phil-mansfield/hmf/cmd"
	"github.com/phil-mansfield/hmf/logging"
	"github.com/phil-mansfield/hmf/version"
)

// configEnv names an environment variable which can hold the path to a
// config file. A config file passed on the command line takes precedence.
const configEnv = "HMF_CONFIG"

var modeDescriptions = `My help modes are:
hmf help
hmf help [ sigma | F | n0 | bias | conc | config ]

My analysis modes are:
hmf sigma [flags] [____.config]
hmf F     [flags] [____.config]
hmf n0    [flags] [____.config]
hmf bias  [flags] [____.config]
hmf conc  [flags] [____.config]

If no config file is given, $` + configEnv + ` is used, and if that isn't set,
the defaults listed by 'hmf help config' are.`

func main() {
	args := os.Args
	if len(args) <= 1 {
		fmt.Fprintf(
			os.Stderr, "I was not supplied with a mode.\nFor help, type "+
				"'./hmf help'.\n",
		)
		os.Exit(1)
	}

	switch args[1] {
	case "help":
		fmt.Println(helpText(args[2:]))
		os.Exit(0)
	case "version":
		fmt.Printf("hmf version %s\n", version.SourceVersion)
		os.Exit(0)
	}

	mode, ok := cmd.ModeNames[args[1]]
	if !ok {
		fmt.Fprintf(
			os.Stderr, "You passed me the mode '%s', which I don't "+
				"recognize.\nFor help, type './hmf help'\n", args[1],
		)
		os.Exit(1)
	}

	gConfig, err := getGlobalConfig(args)
	if err != nil { fatal(args[1], err) }
	logging.Init(os.Stderr, gConfig.LogMode())

	if err = mode.ReadFlags(getFlags(args)); err != nil { fatal(args[1], err) }

	var lines []string
	if mode.ReadsStdin() {
		if lines, err = stdinLines(os.Stdin); err != nil { fatal(args[1], err) }
	}

	out, err := mode.Run(gConfig, lines)
	if err != nil { fatal(args[1], err) }

	for i := range out { fmt.Println(out[i]) }
}

func fatal(mode string, err error) {
	slog.Error("Error running mode", "mode", mode, "err", err.Error())
	os.Exit(1)
}

// helpText returns the text printed by the help mode.
func helpText(targets []string) string {
	switch len(targets) {
	case 0:
		return modeDescriptions
	case 1:
		if targets[0] == "config" {
			return cmd.DefaultGlobalConfig().ExampleConfig()
		}
		mode, ok := cmd.ModeNames[targets[0]]
		if !ok {
			names := []string{}
			for name := range cmd.ModeNames { names = append(names, name) }
			sort.Strings(names)
			return fmt.Sprintf("I don't recognize the help target '%s'. "+
				"Try one of: %s, config.", targets[0], strings.Join(names, ", "))
		}
		return mode.(*cmd.QuantityMode).Usage()
	}
	return "The help mode can only take a single argument."
}

// stdinLines reads rd and splits it into lines.
func stdinLines(rd io.Reader) ([]string, error) {
	bs, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf(
			"Error reading stdin: %s.", err.Error(),
		)
	}
	text := string(bs)
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" { lines = lines[:len(lines)-1] }
	return lines, nil
}

// getFlags returns the flag tokens from the command line arguments.
func getFlags(args []string) []string {
	return args[2 : len(args)-configNum(args)]
}

// getGlobalConfig returns the config named on the command line or by
// $HMF_CONFIG, falling back to the default config.
func getGlobalConfig(args []string) (*cmd.GlobalConfig, error) {
	name := os.Getenv(configEnv)
	switch configNum(args) {
	case 0:
	case 1:
		name = args[len(args)-1]
	default:
		return nil, fmt.Errorf("Passed too many config files as arguments.")
	}

	config := cmd.DefaultGlobalConfig()
	if name == "" { return config, config.Validate() }
	if err := config.ReadConfig(name); err != nil { return nil, err }
	return config, nil
}

// configNum returns the number of configuration files at the end of the
// argument list.
func configNum(args []string) int {
	num := 0
	for i := len(args) - 1; i >= 2; i-- {
		if isConfig(args[i]) {
			num++
		} else {
			break
		}
	}
	return num
}

// isConfig returns true if the given string is a config file name.
func isConfig(s string) bool {
	return strings.HasSuffix(s, ".config")
}
