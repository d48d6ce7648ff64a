package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/captext/backend/gfx"
	"github.com/npillmayer/captext/backend/raster"
	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/captext/core/font"
	"github.com/npillmayer/captext/core/font/opentype/ot"
	"github.com/npillmayer/captext/core/locate/resources"
	"github.com/npillmayer/captext/engine/charrender"
	"github.com/npillmayer/captext/engine/text/monospace"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'captext.render'
func tracer() tracing.Trace {
	return tracing.Select("captext.render")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":      "go",
		"trace.captext.fonts":  "Error",
		"trace.captext.raster": "Error",
		"trace.captext.render": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	families := flag.String("font", "Go", "Comma separated list of font families")
	sources := flag.String("sources", resources.DefaultSources,
		"Font sources to search, in order [packaged|fontconfig|system|google]")
	fcmatch := flag.String("fontconfig", "", "Path of the fc-match binary")
	size := flag.Int("size", 36, "Height of character cells in pixels")
	cells := flag.String("cells", "auto", "Width of character cells [auto|full|half]")
	stroke := flag.Float64("stroke", 0, "Width of glyph edges in pixels")
	underline := flag.Bool("underline", false, "Underline characters")
	zoom := flag.Int("zoom", 1, "Magnification of the output image")
	output := flag.String("o", "capglyph.png", "Output PNG file")
	text := flag.String("text", "", "Text to render; if empty, start interactive mode")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	mode, err := monospace.ParseMode(*cells)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	//
	// set up renderer
	fontconf := testconfig.Conf{
		"font-sources": *sources,
		"fontconfig":   *fcmatch,
		"app-key":      resources.DefaultAppKey,
	}
	source := resources.NewSource(fontconf)
	intp := &Intp{
		source:   source,
		renderer: charrender.New(source, raster.NewEngine()),
		settings: Settings{
			Size:      *size,
			Cells:     mode,
			Stroke:    *stroke,
			Underline: *underline,
			Zoom:      *zoom,
			Output:    *output,
		},
	}
	defer intp.renderer.Close()
	if !intp.setFamilies(*families) {
		pterm.Error.Println("no font family given")
		os.Exit(2)
	}
	setTraceLevel(*tlevel)
	if *text != "" { // batch mode
		if err := intp.render(*text); err != nil {
			core.UserError(err)
			os.Exit(4)
		}
		return
	}
	pterm.Info.Println("Welcome to the caption glyph CLI") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up REPL
	repl, err := readline.New("cap > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp.repl = repl
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()                              // go into interactive mode
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

func setTraceLevel(l string) {
	switch strings.ToLower(l) {
	case "debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().SetTraceLevel(tracing.LevelInfo)
	}
}

// Settings control how text is rendered.
type Settings struct {
	Size      int     // cell height
	Cells     monospace.Mode
	Stroke    float64 // edge width, 0 for none
	Underline bool
	Zoom      int
	Output    string // PNG file
}

// Intp is our interpreter object
type Intp struct {
	source   font.Source
	renderer *charrender.Renderer
	repl     *readline.Instance
	families []string
	settings Settings
}

func (intp *Intp) setFamilies(list string) bool {
	var families []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f != "" {
			families = append(families, f)
		}
	}
	if !intp.renderer.SetFontFamily(families) {
		return false
	}
	intp.families = families
	return true
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
		quit, err := intp.execute(cmd)
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

const (
	QUIT int = iota
	HELP
	TEXT
	FONT
	SIZE
	CELLS
	STROKE
	UNDERLINE
	ZOOM
	OUTPUT
	SHOW
	FONTS
	FACES
)

var commands = map[string]int{
	"quit":      QUIT,
	"help":      HELP,
	"text":      TEXT,
	"font":      FONT,
	"size":      SIZE,
	"cells":     CELLS,
	"stroke":    STROKE,
	"underline": UNDERLINE,
	"zoom":      ZOOM,
	"out":       OUTPUT,
	"show":      SHOW,
	"fonts":     FONTS,
	"faces":     FACES,
}

// Command is a parsed line of input, e.g. "size:48" or "text:ひらがな".
type Command struct {
	code int
	arg  string
}

func parseCommand(line string) Command {
	name, arg, _ := strings.Cut(line, ":")
	code, ok := commands[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		// everything else is text to render
		return Command{code: TEXT, arg: line}
	}
	return Command{code: code, arg: arg}
}

func (intp *Intp) execute(cmd Command) (bool, error) {
	tracer().Debugf("cmd = %v", cmd)
	s := &intp.settings
	switch cmd.code {
	case QUIT:
		return true, nil
	case HELP:
		help()
	case TEXT:
		return false, intp.render(cmd.arg)
	case FONT:
		if !intp.setFamilies(cmd.arg) {
			return false, fmt.Errorf("font: need a list of font families")
		}
	case SIZE:
		n, err := strconv.Atoi(cmd.arg)
		if err != nil || n <= 0 {
			return false, fmt.Errorf("size: not a positive number: %q", cmd.arg)
		}
		s.Size = n
	case CELLS:
		mode, err := monospace.ParseMode(strings.TrimSpace(cmd.arg))
		if err != nil {
			return false, err
		}
		s.Cells = mode
	case STROKE:
		w, err := strconv.ParseFloat(cmd.arg, 64)
		if err != nil {
			return false, fmt.Errorf("stroke: not a number: %q", cmd.arg)
		}
		s.Stroke = w
	case UNDERLINE:
		s.Underline = !s.Underline
	case ZOOM:
		n, err := strconv.Atoi(cmd.arg)
		if err != nil || n <= 0 {
			return false, fmt.Errorf("zoom: not a positive number: %q", cmd.arg)
		}
		s.Zoom = n
	case OUTPUT:
		if cmd.arg == "" {
			return false, fmt.Errorf("out: need a file name")
		}
		s.Output = cmd.arg
	case FONTS:
		if l, ok := intp.source.(resources.FontLister); ok {
			l.ListFonts(strings.TrimSpace(cmd.arg))
		} else {
			pterm.Info.Println("font sources cannot list their fonts")
		}
		return false, nil
	case FACES:
		names, err := listFaces(strings.TrimSpace(cmd.arg))
		if err != nil {
			return false, err
		}
		for i, name := range names {
			pterm.Printfln("face %d: %s", i, name)
		}
		return false, nil
	}
	if cmd.code != HELP && cmd.code != TEXT {
		pterm.Printfln("fonts %v, settings %+v", intp.families, *s)
	}
	return false, nil
}

// render draws a line of text, one cell per character, and writes it to the
// output file.
func (intp *Intp) render(text string) error {
	bm, missing := renderText(intp.renderer, text, intp.settings)
	if len(missing) > 0 {
		pterm.Error.Printfln("no glyphs for %q", string(missing))
	}
	f, err := os.Create(intp.settings.Output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = png.Encode(f, bm.Scaled(intp.settings.Zoom)); err != nil {
		return err
	}
	pterm.Info.Printfln("wrote %d characters to %s", len([]rune(text)), intp.settings.Output)
	return nil
}

var (
	foreground = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	edge       = color.NRGBA{0x00, 0x00, 0x00, 0xff}
	background = color.NRGBA{0x30, 0x30, 0x30, 0xff}
)

// renderText draws a line of text into a new bitmap. Every grapheme gets a
// cell of its own. It returns the bitmap and the characters which could not
// be drawn.
func renderText(r *charrender.Renderer, text string, s Settings) (*gfx.Bitmap, []rune) {
	cells, width := monospace.NewLayouter(s.Size, s.Cells, nil).Layout(text)
	border := s.Size / 4
	bm := gfx.NewBitmap(width+2*border, s.Size+2*border)
	bm.Clear(background)
	pen := charrender.Pen{Fill: foreground, Stroke: edge, StrokeWidth: s.Stroke}
	if s.Stroke > 0 {
		pen.Style |= charrender.StyleStroke
	}
	if s.Underline {
		pen.Style |= charrender.StyleUnderline
	}
	var missing []rune
	for _, c := range cells {
		x := border + c.X
		if s.Underline {
			pen.Underline = &charrender.UnderlineInfo{StartX: x, Width: c.Width}
		}
		cell := charrender.Cell{Width: c.Width, Height: s.Size}
		for _, cp := range c.Runes() { // combining marks are drawn into their base's cell
			switch st := r.DrawChar(bm, x, border, cp, cell, pen, charrender.FallbackAuto); st {
			case charrender.StatusOK:
			case charrender.StatusCodePointNotFound:
				missing = append(missing, cp)
			default:
				tracer().Errorf("%s drawing %#U: %v", st, cp, r.Err())
				missing = append(missing, cp)
			}
		}
	}
	return bm, missing
}

// listFaces returns the PostScript names of the faces in a font file,
// in collection order.
func listFaces(fpath string) ([]string, error) {
	if fpath == "" {
		return nil, fmt.Errorf("faces: need a font file")
	}
	f, err := os.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	n, err := ot.CollectionSize(f)
	if err != nil {
		return nil, err
	}
	names := make([]string, n)
	for i := range names {
		names[i] = "?"
		table, err := ot.ReadTable(f, i, ot.T("name"))
		if err != nil {
			tracer().Infof("face %d of %s: %v", i, fpath, err)
			continue
		}
		recs, err := ot.NameRecords(table)
		if err != nil {
			continue
		}
		for _, rec := range recs {
			if rec.NameID == ot.NameIDPostScript {
				if name := rec.String(); name != "" {
					names[i] = name
					break
				}
			}
		}
	}
	return names, nil
}

func help() {
	pterm.Info.Println("Commands")
	pterm.Println(`
	<text> or text:<text>     render text to the output file
	font:<family>,<family>    set the list of font families
	size:<pixels>             set the height of character cells
	cells:<auto|full|half>    set the width of character cells
	stroke:<pixels>           set the width of glyph edges, 0 for none
	underline                 toggle underlining
	zoom:<factor>             magnify the output image
	out:<file>                set the output PNG file
	show                      print the current settings
	fonts[:<pattern>]         list the fonts of the font sources
	faces:<file>              list the faces of a font file
	quit                      leave (or <ctrl>D)
	`)
}
