package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/lifecycle"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/internal/presentation/tui"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
	"github.com/hashhooshy/flux-labs/pkg/runner"
)

const interactiveHelp = `Commands:
  tap <id>          fire the trigger of a rendered node (button, link, option)
  set <id> <value>  change the value of a rendered input and fire its listener
  state             print the current state bag
  render            re-render the output tree
  help              show this message
  q | quit | exit   leave`

// RunInteractive drives a rendered tree from the terminal: taps fire node
// triggers, sets change input values, and the tree is re-rendered after every
// action. It returns when the user quits or the context is cancelled.
func RunInteractive(ctx context.Context, it *flux.Interpreter, surface *headless.Surface) error {
	renderer := tui.NewRenderer(tui.WithMarkdown())

	// Alerts already shown by the initial render are not repeated.
	seenAlerts := len(surface.Alerts())

	printSystemMessage("Interactive session. Type 'help' for commands.")

	cancelCh := make(chan struct{})
	defer close(cancelCh)

	lines := make(chan string)
	go pumpInput(os.Stdin, cancelCh, lines)

	for {
		fmt.Print("> ")

		var line string
		var open bool
		select {
		case <-ctx.Done():
			fmt.Println()
			printSystemMessage("Interrupted.")
			return nil
		case line, open = <-lines:
			if !open {
				fmt.Println()
				return nil
			}
		}

		verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
		switch verb {
		case "":
			continue
		case "q", "quit", "exit":
			printSystemMessage("Bye.")
			return nil
		case "help":
			fmt.Println(interactiveHelp)
		case "state":
			printState(it)
		case "render":
			redraw(renderer, surface, &seenAlerts)
		case "tap":
			id := strings.TrimSpace(rest)
			if id == "" {
				fmt.Println("Usage: tap <id>")
				continue
			}
			if err := it.Activate(ctx, id); err != nil {
				fmt.Println(renderer.FormatAlert("Error", err.Error()))
				continue
			}
			redraw(renderer, surface, &seenAlerts)
		case "set":
			id, value, ok := strings.Cut(strings.TrimSpace(rest), " ")
			if !ok {
				fmt.Println("Usage: set <id> <value>")
				continue
			}
			clean, err := runner.SanitizeInput(value)
			if err != nil {
				fmt.Println(renderer.FormatAlert("Error", err.Error()))
				continue
			}
			if err := it.SetValue(ctx, id, clean); err != nil {
				fmt.Println(renderer.FormatAlert("Error", err.Error()))
				continue
			}
			redraw(renderer, surface, &seenAlerts)
		default:
			fmt.Printf("Unknown command %q. Type 'help'.\n", verb)
		}
	}
}

// pumpInput feeds stdin lines into the channel until EOF or cancellation.
// The terminal upgrade keeps reads working on platforms where stdin is not
// directly readable line by line (CONIN$ on Windows).
func pumpInput(base io.Reader, cancel <-chan struct{}, lines chan<- string) {
	defer close(lines)

	reader := base
	if upgraded, err := lifecycle.UpgradeTerminal(base); err == nil {
		reader = upgraded
	}

	scanner := bufio.NewScanner(NewInterruptibleReader(reader, cancel))
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-cancel:
			return
		}
	}
}

func redraw(renderer *tui.Renderer, surface *headless.Surface, seenAlerts *int) {
	if out := renderer.Render(surface.Output().Nodes()); out != "" {
		fmt.Print(out)
	}
	alerts := surface.Alerts()
	for _, a := range alerts[*seenAlerts:] {
		fmt.Println(renderer.FormatAlert(a.Title, a.Text))
	}
	*seenAlerts = len(alerts)
}

func printState(it *flux.Interpreter) {
	snapshot := it.State().Snapshot()
	if len(snapshot) == 0 {
		fmt.Println("(empty)")
		return
	}
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s = %v\n", k, snapshot[k])
	}
}
