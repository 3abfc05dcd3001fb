package cli

import (
	"bytes"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"

	"github.com/semafor/evseat/log2"
)

// MainLoop runs an interactive prompt when stdin is a terminal, or
// replays stdin line by line when it is not, so the same shell works
// in scripts and in a pipe.
func MainLoop(log *log2.Log, tag string, exec func(line string), complete func(d prompt.Document) []prompt.Suggest) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		for range signalCh {
			os.Exit(1)
		}
	}()

	if isatty.IsTerminal(os.Stdin.Fd()) {
		prompt.New(exec, complete,
			prompt.OptionPrefix(tag+"> "),
		).Run()
		return
	}
	stdinAll, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	for _, lineb := range bytes.Split(stdinAll, []byte{'\n'}) {
		exec(string(bytes.TrimSpace(lineb)))
	}
}
