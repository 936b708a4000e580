// Command glyphhost is an interactive shell around a glyphhost.Host.
//
// It interns atoms, draws characters onto the canvas, measures text,
// loads fonts and images from the asset directory and reads and writes the
// store. Settings come from .env.local, .env and GLYPHHOST_* variables.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/gogpu/glyphhost"
	"github.com/gogpu/glyphhost/store"
)

// tracer traces with key 'glyphhost.cli'
func tracer() tracing.Trace {
	return tracing.Select("glyphhost.cli")
}

func main() {
	initDisplay()

	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":     "go",
		"trace.glyphhost.cli": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	envFile := flag.String("env", "", "dotenv file to load instead of .env.local and .env")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)

	var files []string
	if *envFile != "" {
		files = []string{*envFile}
	}
	cfg, err := glyphhost.ConfigFromEnv(files...)
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	h, err := glyphhost.New(
		glyphhost.WithConfig(cfg),
		glyphhost.WithLogger(logger),
		glyphhost.WithStore(store.NewMemory()),
	)
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer h.Close()

	pterm.Info.Println("Welcome to the glyphhost shell")
	repl, err := readline.New("glyph > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	defer repl.Close()

	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	if cfg.AssetDir == "" {
		pterm.Info.Println("GLYPHHOST_ASSET_DIR not set; file loads will fail")
	}
	pterm.Info.Println("Quit with <ctrl>D or 'quit'")

	intp := &Intp{host: h, repl: repl}
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	host *glyphhost.Host
	repl *readline.Instance
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		fields, err := splitArgs(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		quit, err := intp.execute(strings.ToLower(fields[0]), fields[1:])
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(name string, args []string) (stop bool, err error) {
	cmd, ok := commands[name]
	if !ok {
		tracer().Infof("unknown command %q", name)
		help("")
		return false, nil
	}
	if len(args) < cmd.minArgs {
		return false, fmt.Errorf("usage: %s %s", name, cmd.usage)
	}
	tracer().Debugf("%s %v", name, args)
	return cmd.fn(intp, args)
}
