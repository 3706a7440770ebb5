// Package selector implements an interactive, line-based picker over a list
// of named items. The list is shown in fixed-size pages; the user types an
// item number to select it, or a single-letter command to page, filter or
// quit.
package selector

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/azimage/internal/catalog"
	"github.com/rshade/azimage/internal/logging"
	"github.com/rshade/azimage/internal/pagination"
)

// Commands understood by the selection prompt. Input is matched
// case-insensitively.
const (
	cmdNext   = "n"
	cmdPrev   = "p"
	cmdSelect = "s"
	cmdFilter = "f"
	cmdQuit   = "q"
)

const (
	selectionPrompt = "Selection: "
	indexPrompt     = "Enter item number: "
	filterPrompt    = "Enter filter text (empty to clear): "
	commandLegend   = "[number] select | n next page | p previous page | s select by number | f filter | q quit"
)

// Outcome is how a selection session ended.
type Outcome int

// Selection outcomes. Quit and Empty both mean no item was chosen.
const (
	Selected Outcome = iota
	Quit
	Empty
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case Quit:
		return "quit"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// Result is the item the user picked, or none. Item is only meaningful when
// Outcome is Selected.
type Result[T catalog.Named] struct {
	Item    T
	Outcome Outcome
}

// OK reports whether an item was selected.
func (r Result[T]) OK() bool {
	return r.Outcome == Selected
}

// Options configures one Run.
type Options struct {
	Title    string
	PageSize int    // defaults to pagination.DefaultPageSize when < 1
	Filter   string // initial filter, may be empty
}

// Selector reads commands from an input stream and writes pages to an
// output stream. One Selector should be shared by every Run over the same
// input so that buffered lines are not lost between sessions.
type Selector struct {
	scanner *bufio.Scanner
	out     io.Writer
	printer *message.Printer
	styles  styles
}

type styles struct {
	title  lipgloss.Style
	meta   lipgloss.Style
	legend lipgloss.Style
	notice lipgloss.Style
	err    lipgloss.Style
}

// New returns a Selector reading from in and writing to out. Styling is
// dropped automatically when out is not a terminal.
func New(in io.Reader, out io.Writer) *Selector {
	r := lipgloss.NewRenderer(out)
	return &Selector{
		scanner: bufio.NewScanner(in),
		out:     out,
		printer: message.NewPrinter(language.English),
		styles: styles{
			title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
			meta:   r.NewStyle().Foreground(lipgloss.Color("245")),
			legend: r.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
			notice: r.NewStyle().Foreground(lipgloss.Color("214")),
			err:    r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		},
	}
}

// Run shows items page by page and blocks until the user selects one item,
// quits, or the list (after filtering) is empty. End of input counts as
// quit. Filters always apply to the original items; a new filter replaces
// the previous one and restarts at page 1.
//
//nolint:gocognit // The command dispatch is a single flat loop.
func Run[T catalog.Named](ctx context.Context, s *Selector, items []T, opts Options) (Result[T], error) {
	log := logging.FromContext(ctx)
	var none Result[T]

	state := newState(opts.PageSize, strings.TrimSpace(opts.Filter))
	visible := catalog.FilterByKey(items, state.Filter)
	state.reset(len(visible))

	for {
		if err := ctx.Err(); err != nil {
			return none, err
		}

		if len(visible) == 0 {
			s.printEmpty(opts.Title, state.Filter)
			log.Debug().
				Ctx(ctx).
				Str("component", "selector").
				Str("title", opts.Title).
				Str("filter", state.Filter).
				Int("items", len(items)).
				Msg("nothing to select")
			none.Outcome = Empty
			return none, nil
		}

		s.renderPage(opts.Title, catalog.Names(pagination.Slice(visible, state.Page, state.PageSize)), state)

		line, ok, err := s.readLine(selectionPrompt)
		if err != nil {
			return none, err
		}
		if !ok {
			none.Outcome = Quit
			return none, nil
		}

		input := strings.ToLower(strings.TrimSpace(line))
		if idx, isNumber := parseIndex(input); isNumber {
			if item, found := pick(visible, idx); found {
				return Result[T]{Item: item, Outcome: Selected}, nil
			}
			s.outOfRange(idx, len(visible))
			continue
		}

		switch input {
		case cmdNext:
			if !state.next() {
				s.noticef("Already on the last page.")
			}
		case cmdPrev:
			if !state.prev() {
				s.noticef("Already on the first page.")
			}
		case cmdSelect:
			entry, entered, readErr := s.readLine(indexPrompt)
			if readErr != nil {
				return none, readErr
			}
			if !entered {
				none.Outcome = Quit
				return none, nil
			}
			idx, isNumber := parseIndex(strings.TrimSpace(entry))
			if !isNumber {
				s.errorf("%q is not a number.", strings.TrimSpace(entry))
				continue
			}
			if item, found := pick(visible, idx); found {
				return Result[T]{Item: item, Outcome: Selected}, nil
			}
			s.outOfRange(idx, len(visible))
		case cmdFilter:
			entry, entered, readErr := s.readLine(filterPrompt)
			if readErr != nil {
				return none, readErr
			}
			if !entered {
				none.Outcome = Quit
				return none, nil
			}
			state.Filter = strings.TrimSpace(entry)
			visible = catalog.FilterByKey(items, state.Filter)
			state.reset(len(visible))
			log.Debug().
				Ctx(ctx).
				Str("component", "selector").
				Str("filter", state.Filter).
				Int("matches", len(visible)).
				Msg("filter applied")
		case cmdQuit:
			none.Outcome = Quit
			return none, nil
		default:
			s.errorf("Invalid input %q. Use a number or one of n, p, s, f, q.", strings.TrimSpace(line))
		}
	}
}

// parseIndex parses a bare integer. It reports false for anything else,
// including an explicit plus sign.
func parseIndex(input string) (int, bool) {
	if input == "" || strings.HasPrefix(input, "+") {
		return 0, false
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, false
	}
	return n, true
}

// pick returns the item at the 1-based index.
func pick[T any](items []T, idx int) (T, bool) {
	if idx < 1 || idx > len(items) {
		var zero T
		return zero, false
	}
	return items[idx-1], true
}

// readLine prints prompt and reads one line. It reports false at end of input.
func (s *Selector) readLine(prompt string) (string, bool, error) {
	_, _ = fmt.Fprint(s.out, prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("reading selection: %w", err)
		}
		_, _ = fmt.Fprintln(s.out)
		return "", false, nil
	}
	return s.scanner.Text(), true, nil
}

// renderPage prints the header, the items of the current page as
// "<global index>. <display key>", and the command legend.
func (s *Selector) renderPage(title string, names []string, state *State) {
	meta := state.Meta()

	_, _ = fmt.Fprintln(s.out)
	_, _ = fmt.Fprintln(s.out, s.styles.title.Render(title))

	header := s.printer.Sprintf("Page %d of %d (items %d-%d of %d)",
		meta.CurrentPage, meta.TotalPages, meta.FirstIndex, meta.LastIndex, meta.TotalItems)
	if state.Filter != "" {
		header += fmt.Sprintf(" filter: %q", state.Filter)
	}
	_, _ = fmt.Fprintln(s.out, s.styles.meta.Render(header))

	for i, name := range names {
		_, _ = fmt.Fprintf(s.out, "%d. %s\n", meta.FirstIndex+i, name)
	}
	_, _ = fmt.Fprintln(s.out, s.styles.legend.Render(commandLegend))
}

func (s *Selector) printEmpty(title, filter string) {
	msg := "No items to select"
	if filter != "" {
		msg = fmt.Sprintf("No items match filter %q", filter)
	}
	if title != "" {
		msg += " for " + title
	}
	s.noticef("%s.", msg)
}

func (s *Selector) outOfRange(idx, total int) {
	s.errorf("%s", s.printer.Sprintf("Invalid selection %d: enter a number between 1 and %d.", idx, total))
}

func (s *Selector) noticef(format string, args ...any) {
	_, _ = fmt.Fprintln(s.out, s.styles.notice.Render(fmt.Sprintf(format, args...)))
}

func (s *Selector) errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(s.out, s.styles.err.Render(fmt.Sprintf(format, args...)))
}
