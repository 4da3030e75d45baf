package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"keel/internal/mono"
	"keel/internal/observ"
	"keel/internal/scenario"
)

type reportOptions struct {
	Color   bool
	Quiet   bool
	Dump    bool
	Summary bool
	Timings bool
}

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
)

func paint(c *color.Color, enabled bool, s string) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

// printFileReport renders one batch entry. Errors win over everything else;
// quiet mode keeps them and drops the rest.
func printFileReport(out io.Writer, res scenario.FileResult, opts reportOptions) {
	switch {
	case res.Err != nil:
		fmt.Fprintf(out, "%s: %s: %v\n", res.Path, paint(failColor, opts.Color, "error"), res.Err)
	case opts.Quiet:
	case opts.Summary:
		ctx := res.Build.Ctx
		fmt.Fprintf(out, "%s: %s, %d template(s), %d class(es), %d signature(s)\n",
			res.Path, paint(okColor, opts.Color, "ok"),
			ctx.NumTemplates(), ctx.NumClasses(), ctx.NumSignatures())
	default:
		printRegistry(out, res.Build, opts)
	}
	if opts.Timings && res.Timing != nil && !opts.Quiet {
		printStageTimings(out, res.Timing)
	}
}

func printRegistry(out io.Writer, b *scenario.Build, opts reportOptions) {
	ctx := b.Ctx
	fmt.Fprintf(out, "%s: module %s\n", b.Manifest.Path(), b.Manifest.Module)
	for id := mono.TemplateID(1); int(id) <= ctx.NumTemplates(); id++ {
		fmt.Fprintf(out, "  %s\n", ctx.Summarize(id))
	}
	for _, call := range b.Results {
		fmt.Fprintf(out, "  call %d: %s\n", call.Call, describeCall(ctx, call))
	}
	if !opts.Dump {
		return
	}
	for id := mono.TemplateID(1); int(id) <= ctx.NumTemplates(); id++ {
		fmt.Fprint(out, ctx.DumpTemplateString(id))
		for _, cid := range ctx.Template(id).Classes {
			fmt.Fprint(out, ctx.DumpClassString(cid))
		}
	}
}

func describeCall(ctx *mono.Context, call scenario.CallResult) string {
	name := ctx.Strings.MustLookup(ctx.Template(call.Template).Name)
	verb := "reused"
	if call.Fresh {
		verb = "minted"
	}
	suffix := ""
	if !call.Signature.IsValid() {
		suffix = " default"
	}
	return fmt.Sprintf("%s%s -> %s#%d (%s)", name, suffix, name, ctx.Class(call.Class).Number, verb)
}

func printStageTimings(out io.Writer, rep *observ.Report) {
	if out == nil || rep == nil || len(rep.Stages) == 0 {
		return
	}
	if _, err := io.WriteString(out, rep.Summary()); err != nil {
		panic(err)
	}
}
