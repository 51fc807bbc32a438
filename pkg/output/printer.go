package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/logrusorgru/aurora/v3"
	"github.com/mt-inside/go-usvc"
	hlog "github.com/mt-inside/http-log/pkg/output"
	dmp "github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"

	"github.com/mt-inside/url-canonicalize/pkg/batch"
	"github.com/mt-inside/url-canonicalize/pkg/state"
)

const bodySnippetLen = 72

type Printer struct {
	w      io.Writer
	s      hlog.TtyStyler
	colour bool
	format string
	diff   bool
	dump   bool
}

func NewPrinter(w io.Writer, colour bool, format string, diff, dump bool) *Printer {
	return &Printer{
		w:      w,
		s:      hlog.NewTtyStyler(aurora.NewAurora(colour)),
		colour: colour,
		format: format,
		diff:   diff,
		dump:   dump,
	}
}

func (p *Printer) Print(records []batch.Record) error {
	switch p.format {
	case "json":
		return p.printJSON(records)
	case "yaml":
		return p.printYAML(records)
	case "text", "":
		p.printText(records)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", p.format)
	}
}

func rows(records []batch.Record) []Row {
	rs := make([]Row, 0, len(records))
	for _, rec := range records {
		rs = append(rs, RowFromRecord(rec))
	}
	return rs
}

func (p *Printer) printJSON(records []batch.Record) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows(records))
}

func (p *Printer) printYAML(records []batch.Record) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(rows(records)); err != nil {
		return err
	}
	return enc.Close()
}

func (p *Printer) printText(records []batch.Record) {
	for _, rec := range records {
		p.printRecord(rec)
	}
}

func (p *Printer) printRecord(rec batch.Record) {
	fmt.Fprintf(p.w, "%s -> ", p.s.Addr(rec.Input))

	switch r := rec.Result.(type) {
	case state.CanonicalFound:
		fmt.Fprintf(p.w, "%s (%s, %s)\n", p.s.Addr(r.Location), p.s.Ok("canonical"), p.s.Noun(r.Source.String()))
	case state.Redirect:
		fmt.Fprintf(p.w, "%s (%s, %s)\n", p.s.Addr(r.Location), p.s.Ok("redirect"), p.s.Noun(strconv.Itoa(r.StatusCode)))
	case state.Unresolved:
		if r.Reason == state.ReasonTransportFault {
			fmt.Fprintf(p.w, "%s\n", p.s.Fail(r.String()))
		} else {
			fmt.Fprintf(p.w, "%s\n", p.s.Warn(r.String()))
		}
	}

	if p.diff && rec.Result.URL() != "" && rec.Result.URL() != rec.Input {
		fmt.Fprintf(p.w, "\t%s\n", p.renderDiff(rec.Input, rec.Result.URL()))
	}

	if p.dump {
		spew.Fdump(p.w, rec.Result)
		if u, ok := rec.Result.(state.Unresolved); ok && u.Response != nil {
			p.printBodySnippet(u.Response)
		}
	}
}

func (p *Printer) printBodySnippet(resp *state.ResponseOutcome) {
	body, err := resp.Body()
	if err != nil {
		fmt.Fprintf(p.w, "\tbody: %s\n", p.s.Fail(err.Error()))
		return
	}
	printLen := usvc.MinInt(len(body), bodySnippetLen)
	fmt.Fprintf(p.w, "\tbody: %q", body[:printLen])
	if len(body) > printLen {
		fmt.Fprintf(p.w, "... (%d more bytes)", len(body)-printLen)
	}
	fmt.Fprintln(p.w)
}

func (p *Printer) renderDiff(from, to string) string {
	differ := dmp.New()
	diffs := differ.DiffMain(from, to, false)
	diffs = differ.DiffCleanupSemantic(diffs)

	if p.colour {
		return differ.DiffPrettyText(diffs)
	}

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case dmp.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		case dmp.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case dmp.DiffEqual:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}
