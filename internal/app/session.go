package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"swingplanner/internal/domain"
	"swingplanner/internal/ports"
)

// ErrQuit is returned by Session.Execute for the quit command.
var ErrQuit = errors.New("quit")

const sessionHelp = `Commands:
  set <account|risk|entry|stop> <value>   change an input
  symbol <ticker>                         set the ticker for this plan
  add                                     add a target
  remove <n>                              remove target n
  price <n> <value>                       set target n's price
  pct <n> <value>                         set target n's exit percentage
  save <name> | load <name> | delete <name>
  list                                    list saved worksheets
  analyze [timeframe]                     run the ticker scout for the symbol
  show                                    print the plan
  help                                    print this help
  quit                                    leave the session
`

// Renderer prints a plan for the session.
type Renderer func(w io.Writer, symbol string, plan domain.Plan) error

// AnalysisRenderer prints a ticker analysis for the session.
type AnalysisRenderer func(w io.Writer, a *domain.AnalysisResult) error

// Session is a line-based interactive front end over a PlannerService.
type Session struct {
	svc            *PlannerService
	out            io.Writer
	render         Renderer
	renderAnalysis AnalysisRenderer
}

// NewSession creates a session writing to out.
func NewSession(svc *PlannerService, out io.Writer, render Renderer, renderAnalysis AnalysisRenderer) *Session {
	return &Session{svc: svc, out: out, render: render, renderAnalysis: renderAnalysis}
}

// Run reads commands from in until EOF, quit, or ctx is done. Command errors
// are printed and the session continues. Reading happens on its own goroutine
// so a canceled ctx ends the session even while a read is blocked.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	readCtx, stop := context.WithCancel(ctx)
	defer stop()
	lines, errc := readLines(readCtx, in)
	fmt.Fprint(s.out, "> ")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return <-errc
			}
			err := s.Execute(ctx, line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
			fmt.Fprint(s.out, "> ")
		}
	}
}

// readLines scans in until EOF or ctx is done. The scanner error, if any, is
// sent on errc before lines is closed. A read already blocked on in only
// returns when in does.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// Execute runs a single command line.
func (s *Session) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return ErrQuit
	case "help", "?":
		_, err := fmt.Fprint(s.out, sessionHelp)
		return err
	case "show":
		return s.show(s.svc.Plan())
	case "set":
		if len(args) != 2 {
			return usage("set <account|risk|entry|stop> <value>")
		}
		v, err := parseNumber(args[1])
		if err != nil {
			return err
		}
		plan, err := s.svc.UpdateInput(ctx, domain.InputField(strings.ToLower(args[0])), v)
		if err != nil {
			return err
		}
		return s.show(plan)
	case "symbol":
		if len(args) != 1 {
			return usage("symbol <ticker>")
		}
		s.svc.SetSymbol(args[0])
		return s.show(s.svc.Plan())
	case "add":
		plan, err := s.svc.AddTarget(ctx)
		if err != nil {
			return err
		}
		return s.show(plan)
	case "remove":
		if len(args) != 1 {
			return usage("remove <n>")
		}
		id, err := s.targetID(args[0])
		if err != nil {
			return err
		}
		plan, err := s.svc.RemoveTarget(ctx, id)
		if err != nil {
			return err
		}
		return s.show(plan)
	case "price", "pct":
		if len(args) != 2 {
			return usage(cmd + " <n> <value>")
		}
		id, err := s.targetID(args[0])
		if err != nil {
			return err
		}
		v, err := parseNumber(args[1])
		if err != nil {
			return err
		}
		var plan domain.Plan
		if cmd == "price" {
			plan, err = s.svc.SetTargetPrice(ctx, id, v)
		} else {
			plan, err = s.svc.SetTargetPercentage(ctx, id, v)
		}
		if err != nil {
			return err
		}
		return s.show(plan)
	case "save":
		if len(args) != 1 {
			return usage("save <name>")
		}
		ws, err := s.svc.SaveWorksheet(ctx, args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(s.out, "saved %q\n", ws.Name)
		return err
	case "load":
		if len(args) != 1 {
			return usage("load <name>")
		}
		plan, err := s.svc.LoadWorksheet(ctx, args[0])
		if err != nil {
			return err
		}
		return s.show(plan)
	case "delete":
		if len(args) != 1 {
			return usage("delete <name>")
		}
		if err := s.svc.DeleteWorksheet(ctx, args[0]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(s.out, "deleted %q\n", args[0])
		return err
	case "list":
		list, err := s.svc.ListWorksheets(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			_, err = fmt.Fprintln(s.out, "no saved worksheets")
			return err
		}
		for _, ws := range list {
			fmt.Fprintf(s.out, "%-20s %-8s entry %s stop %s  %s\n",
				ws.Name, ws.Symbol,
				strconv.FormatFloat(ws.Inputs.EntryPrice, 'f', -1, 64),
				strconv.FormatFloat(ws.Inputs.StopLossPrice, 'f', -1, 64),
				ws.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	case "analyze":
		symbol := s.svc.Symbol()
		if symbol == "" {
			return fmt.Errorf("set a symbol first: %w", ports.ErrInvalidRequest)
		}
		timeframe := ""
		if len(args) > 0 {
			timeframe = args[0]
		}
		result, err := s.svc.AnalyzeTicker(ctx, symbol, timeframe)
		if err != nil {
			return err
		}
		return s.renderAnalysis(s.out, result)
	default:
		return fmt.Errorf("unknown command %q, type help: %w", cmd, ports.ErrInvalidRequest)
	}
}

func (s *Session) show(plan domain.Plan) error {
	return s.render(s.out, s.svc.Symbol(), plan)
}

// targetID resolves a 1-based target number.
func (s *Session) targetID(arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", fmt.Errorf("invalid target number %q: %w", arg, ports.ErrInvalidRequest)
	}
	id, ok := s.svc.TargetIDAt(n - 1)
	if !ok {
		return "", fmt.Errorf("no target %d: %w", n, ports.ErrInvalidRequest)
	}
	return id, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, ports.ErrInvalidRequest)
	}
	return v, nil
}

func usage(u string) error {
	return fmt.Errorf("usage: %s: %w", u, ports.ErrInvalidRequest)
}

// ParseTargets parses "price:percent" pairs separated by commas, e.g.
// "160:50,170:50". A bare price exits 0%.
func ParseTargets(s string) ([]domain.TradeTarget, error) {
	var targets []domain.TradeTarget
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		priceStr, pctStr, hasPct := strings.Cut(item, ":")
		price, err := parseNumber(strings.TrimSpace(priceStr))
		if err != nil {
			return nil, err
		}
		var pct float64
		if hasPct {
			if pct, err = parseNumber(strings.TrimSpace(pctStr)); err != nil {
				return nil, err
			}
		}
		targets = append(targets, domain.TradeTarget{Price: price, PercentageExit: pct})
	}
	return targets, nil
}
