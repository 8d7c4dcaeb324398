package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foreman/foreman/pkg/site"
	"github.com/foreman/foreman/pkg/types"
	"github.com/foreman/foreman/pkg/weather"
)

const shellHelp = `Commands:
  task <name> <bricks> <cement> <tools> <priority>   queue a task
  hire <name> [proficiency]                          add a worker
  fire <name>                                        remove a worker
  recall                                             bring back the longest-resting worker
  run [cycles]                                       run allocation cycles
  weather <random|clear|rainy|stormy>                change the weather
  status                                             show stock and crew
  queue                                              show waiting tasks
  quit                                               leave the shell`

var errQuit = errors.New("quit")

func (c *CLI) newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Manage a site interactively",
		Long:  `Read commands line by line and apply them to one in-memory site.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShell(cmd.Context())
		},
	}
}

func (c *CLI) runShell(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := c.loadSiteConfig()
	if err != nil {
		return err
	}
	s, err := c.openSite(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.output, "🏗 Foreman shell. Type help for commands.")
	scanner := bufio.NewScanner(c.input)
	for {
		fmt.Fprint(c.output, "foreman> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.output)
			return scanner.Err()
		}

		err := c.dispatch(ctx, s, strings.Fields(scanner.Text()))
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			c.console.Error(err.Error())
		}
	}
}

func (c *CLI) dispatch(ctx context.Context, s *site.Site, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "task":
		if len(args) != 5 {
			return fmt.Errorf("usage: task <name> <bricks> <cement> <tools> <priority>")
		}
		nums, err := parseInts(args[1:])
		if err != nil {
			return err
		}
		task, err := s.SubmitTask(args[0], nums[0], nums[1], nums[2], nums[3])
		if err != nil {
			return err
		}
		c.console.Success(fmt.Sprintf("Task %s added with priority %d", task.Name, task.Priority))

	case "hire":
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("usage: hire <name> [proficiency]")
		}
		proficiency := 0
		if len(args) == 2 {
			nums, err := parseInts(args[1:])
			if err != nil {
				return err
			}
			proficiency = nums[0]
		}
		if err := s.HireWorker(args[0], proficiency); err != nil {
			return err
		}
		c.console.Success(fmt.Sprintf("Worker %s hired", args[0]))

	case "fire":
		if len(args) != 1 {
			return fmt.Errorf("usage: fire <name>")
		}
		if err := s.TerminateWorker(args[0]); err != nil {
			return err
		}
		c.console.Success(fmt.Sprintf("Worker %s terminated", args[0]))

	case "recall":
		name, err := s.RecallWorker()
		if errors.Is(err, types.ErrNoRestingWorkers) {
			c.console.Info("No workers are currently on break")
			return nil
		}
		if err != nil {
			return err
		}
		c.console.Success(fmt.Sprintf("%s is back from break", name))

	case "run":
		cycles := 1
		if len(args) == 1 {
			nums, err := parseInts(args)
			if err != nil {
				return err
			}
			cycles = nums[0]
		}
		for i := 0; i < cycles; i++ {
			printReport(c.output, s.RunCycle(ctx))
		}

	case "weather":
		if len(args) != 1 {
			return fmt.Errorf("usage: weather <random|clear|rainy|stormy>")
		}
		gate, err := weather.FromConfig(&types.WeatherConfig{Mode: types.WeatherMode(strings.ToLower(args[0]))})
		if err != nil {
			return err
		}
		s.SetGate(gate)
		c.console.Info(fmt.Sprintf("Weather set to %s", strings.ToLower(args[0])))

	case "status":
		printStatus(c.output, s)

	case "queue":
		printQueue(c.output, s.QueueSnapshot())

	case "help", "?":
		fmt.Fprintln(c.output, shellHelp)

	case "quit", "exit":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q (type help)", cmd)
	}
	return nil
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", types.ErrInvalidQuantity, a)
		}
		out[i] = n
	}
	return out, nil
}
