package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chartpreview/soundgen/mixer"
	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"
)

var ansiColors = map[string]int{
	"black":  30,
	"red":    31,
	"green":  32,
	"yellow": 33,
	"blue":   34,
	"cyan":   36,
	"white":  37,
	"orange": 33, // no orange in the basic palette
}

// terminalSink prints one line per task when it finishes and keeps a
// summary line updated while rendering.
type terminalSink struct {
	out     io.Writer
	color   bool
	threads map[string]mixer.ThreadInfo
	current map[string]int
	done    int
	total   int
	pad     int
}

func newTerminalSink(out io.Writer, color bool) *terminalSink {
	return &terminalSink{out: out, color: color}
}

func (s *terminalSink) Start(threads map[string]mixer.ThreadInfo) {
	s.threads = threads
	s.current = make(map[string]int, len(threads))
	s.done = 0
	s.total = 0
	s.pad = 0
	for id, th := range threads {
		s.total += th.Max
		s.pad = max(s.pad, displayWidth(id))
	}
	ids := make([]string, 0, len(threads))
	for id := range threads {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	title := cases.Title(language.English)
	for _, id := range ids {
		th := threads[id]
		fmt.Fprintf(s.out, "  %v  %v, %v units\n", s.label(id), title.String(th.Kind.String()), th.Max)
	}
	s.status()
}

func (s *terminalSink) Update(id string, current int) {
	s.done += current - s.current[id]
	s.current[id] = current
	s.status()
}

func (s *terminalSink) Finish(id string) {
	fmt.Fprintf(s.out, "\r\033[K  %v  done\n", s.label(id))
	s.status()
}

func (s *terminalSink) status() {
	percent := 100
	if s.total > 0 {
		percent = s.done * 100 / s.total
	}
	fmt.Fprintf(s.out, "\r\033[Krendering %3d%% (%v/%v)", percent, s.done, s.total)
}

// Close ends the summary line.
func (s *terminalSink) Close() {
	fmt.Fprintln(s.out)
}

func (s *terminalSink) label(id string) string {
	text := padRight(id, s.pad)
	if !s.color {
		return text
	}
	code, ok := ansiColors[s.threads[id].Color.FG]
	if !ok {
		return text
	}
	return fmt.Sprintf("\033[%dm%v\033[0m", code, text)
}

// displayWidth is the number of terminal cells s takes: wide and fullwidth
// characters take two.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func padRight(s string, cells int) string {
	if w := displayWidth(s); w < cells {
		return s + strings.Repeat(" ", cells-w)
	}
	return s
}
