package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/tyse-svg/backend/raster"
	"github.com/npillmayer/tyse-svg/core"
	"github.com/npillmayer/tyse-svg/core/dimen"
	"github.com/npillmayer/tyse-svg/core/font/fontregistry"
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
	"github.com/npillmayer/tyse-svg/core/locate/resources"
	"github.com/npillmayer/tyse-svg/engine/glyphing"
	"github.com/npillmayer/tyse-svg/engine/glyphing/svgshape"
	"github.com/pterm/pterm"
	xfont "golang.org/x/image/font"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// tracer traces with key 'tyse.svgfont'
func tracer() tracing.Trace {
	return tracing.Select("tyse.svgfont")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "TyseSample", "SVG font to load (name or path)")
	fontpath := flag.String("path", ".", "Directories to search for SVG fonts")
	fallback := flag.String("fallback", "", "System font for missing characters")
	size := flag.Float64("size", 32, "Font size in user space units")
	flag.Parse()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":         "go",
		"trace.tyse.svgfont":      *tlevel,
		"trace.tyse.glyphs":       "Error",
		"trace.tyse.resources":    "Error",
		resources.SVGFontPathKey:  *fontpath,
		resources.FallbackFontKey: *fallback,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	pterm.Info.Println("Welcome to the SVG font CLI") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up REPL
	repl, err := readline.New("svgfont > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl, conf: conf, size: float32(*size), rtl: "auto"}
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()                             // go into interactive mode
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
	repl     *readline.Instance
	conf     testconfig.Conf
	font     *svgfont.Font
	shaper   *svgshape.Shaper
	size     float32
	vertical bool
	rtl      string // "on", "off" or "auto"
	lang     string
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd := parseCommand(line)
		err, quit := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Command is a command word, followed by the rest of the input line.
type Command struct {
	op  string
	arg string
}

func parseCommand(line string) Command {
	op, arg, _ := strings.Cut(line, " ")
	tracer().Debugf("parse command = %q %q", op, arg)
	return Command{op: strings.ToLower(op), arg: strings.TrimSpace(arg)}
}

func (intp *Intp) execute(cmd Command) (error, bool) {
	switch cmd.op {
	case "quit", "exit":
		return nil, true
	case "help":
		help(cmd.arg)
	case "font":
		return intp.loadFont(cmd.arg), false
	case "fonts":
		fontregistry.GlobalRegistry().LogFontList()
	case "size":
		s, err := strconv.ParseFloat(cmd.arg, 32)
		if err != nil || s <= 0 {
			return core.Error(core.EINVALID, "size must be a positive number: %q", cmd.arg), false
		}
		intp.size = float32(s)
		intp.shaper = intp.shaper.WithSize(intp.size)
		pterm.Printfln("size = %g", intp.size)
	case "vertical":
		intp.vertical = cmd.arg != "off"
		pterm.Printfln("vertical = %v", intp.vertical)
	case "rtl":
		switch cmd.arg {
		case "on", "off", "auto":
			intp.rtl = cmd.arg
		default:
			return core.Error(core.EINVALID, "rtl expects on, off or auto"), false
		}
	case "lang":
		intp.lang = cmd.arg
		pterm.Printfln("language = %q", intp.lang)
	case "measure":
		run := intp.run(cmd.arg)
		pterm.Printfln("advance of %q = %.2f", run.String(), intp.shaper.MeasureRun(run))
	case "layout":
		run := intp.run(cmd.arg)
		for _, p := range intp.shaper.Layout(run, dimen.Origin) {
			pterm.Println(p.String())
		}
	case "shape":
		return intp.shape(cmd.arg), false
	case "glyph":
		return intp.showGlyph(cmd.arg), false
	case "kern":
		return intp.showKerning(cmd.arg), false
	case "draw":
		return intp.draw(cmd.arg), false
	default:
		help("")
	}
	return nil, false
}

func (intp *Intp) loadFont(name string) error {
	f, err := resources.ResolveSVGFont(intp.conf, name, xfont.StyleNormal, xfont.WeightNormal).SVGFont()
	if err != nil {
		return err
	}
	tc, err := resources.ResolveTypeCase(intp.conf, "", intp.size).TypeCase()
	if err != nil {
		tracer().Infof("using packaged fallback font for missing characters")
	}
	intp.font = f
	intp.shaper = svgshape.NewShaper(f, intp.size, svgshape.NewSystemFallback(tc))
	pterm.Printfln("loaded SVG font %q with %d glyphs", f.Name(), f.Glyphs().Len())
	return nil
}

func (intp *Intp) run(text string) svgshape.TextRun {
	rtl := intp.rtl == "on"
	if intp.rtl == "auto" {
		rtl = isRightToLeft(text)
	}
	ctx := svgshape.RunContext{Vertical: intp.vertical, Language: intp.lang}
	return svgshape.NewTextRun(text, rtl, ctx)
}

// isRightToLeft checks the first strong character of a text.
func isRightToLeft(text string) bool {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return true
		case bidi.L:
			return false
		}
	}
	return false
}

// shape runs text through the generic glyphing interface.
func (intp *Intp) shape(text string) error {
	params := glyphing.Params{Size: intp.size, Direction: glyphing.LeftToRight}
	if intp.run(text).RTL() {
		params.Direction = glyphing.RightToLeft
	}
	if intp.vertical {
		params.Direction = glyphing.TopToBottom
	}
	if intp.lang != "" {
		params.Language = language.Make(intp.lang)
	}
	seq, err := intp.shaper.Shape(strings.NewReader(text), nil, nil, params)
	if err != nil {
		return err
	}
	for _, g := range seq.Glyphs {
		pterm.Printfln("%v at (%.2f,%.2f)", g, g.XOffset, g.YOffset)
	}
	w, h, d := seq.BoundingBox()
	pterm.Printfln("box w=%.2f h=%.2f d=%.2f", w, h, d)
	return nil
}

func (intp *Intp) showGlyph(arg string) error {
	g, ok := intp.font.Glyphs().LookupByName(arg)
	if !ok {
		m, found := intp.font.Glyphs().LookupLongestMatch([]rune(arg), 0)
		if !found || len(m.Candidates) == 0 {
			return core.Error(core.EMISSING, "no glyph for %q", arg)
		}
		g = m.Candidates[0]
	}
	h, v := intp.shaper.AdvanceFor(g.ID)
	pterm.Printfln("%v: form=%v orientation=%v lang=%v", g, g.Form, g.Orientation, g.Languages)
	pterm.Printfln("advance h=%.2f v=%.2f at size %g", h, v, intp.size)
	return nil
}

func (intp *Intp) showKerning(arg string) error {
	chars := []rune(strings.ReplaceAll(arg, " ", ""))
	if len(chars) != 2 {
		return core.Error(core.EINVALID, "kern expects two characters")
	}
	name := func(r rune) string {
		if m, ok := intp.font.Glyphs().LookupLongestMatch([]rune{r}, 0); ok && len(m.Candidates) > 0 {
			return m.Candidates[0].Name
		}
		return ""
	}
	u1, u2 := string(chars[0]), string(chars[1])
	h := intp.font.HKern().AdjustmentFor(u1, name(chars[0]), u2, name(chars[1]))
	v := intp.font.VKern().AdjustmentFor(u1, name(chars[0]), u2, name(chars[1]))
	pterm.Printfln("kerning %s|%s: horizontal %g, vertical %g (design units)", u1, u2, h, v)
	return nil
}

func (intp *Intp) draw(text string) error {
	run := intp.run(text)
	extent := intp.shaper.MeasureRun(run)
	margin := intp.size / 2
	w, h := int(extent+2*margin), int(2*intp.size+2*margin)
	origin := dimen.Point{X: margin, Y: margin + 1.5*intp.size}
	if intp.vertical {
		w, h = int(2*intp.size+2*margin), int(extent+2*margin)
		origin = dimen.Point{X: margin + intp.size, Y: margin + intp.size}
	}
	canvas := raster.NewCanvas(w, h)
	intp.shaper.DrawRun(canvas, run, origin)
	out, err := os.Create("sfcli.png")
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot create output image")
	}
	defer out.Close()
	if err = png.Encode(out, canvas.Image()); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot write output image")
	}
	pterm.Printfln("wrote %d×%d image to sfcli.png", w, h)
	return nil
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	pterm.Info.Println("Commands")
	pterm.Println(`
	measure <text>      measure the advance of a run
	layout <text>       list glyph placements of a run
	draw <text>         paint a run to sfcli.png
	glyph <name|text>   show a glyph by name or by characters
	kern <c1><c2>       show kerning between two characters
	shape <text>        shape a run and show its bounding box
	font <name>         load another SVG font
	fonts               log the fonts in the registry
	size <n>            set the font size
	vertical on|off     set vertical writing mode
	rtl on|off|auto     set text direction
	lang <tag>          set the language of runs
	quit
	`)
}
