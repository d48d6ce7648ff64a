package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/captext/backend/raster"
	"github.com/npillmayer/captext/core/font/fontregistry"
	"github.com/npillmayer/captext/core/locate/resources"
	"github.com/npillmayer/captext/engine/charrender"
	"github.com/npillmayer/captext/engine/text/monospace"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestParseCommand(t *testing.T) {
	assert.Equal(t, Command{code: SIZE, arg: "48"}, parseCommand("size:48"))
	assert.Equal(t, Command{code: CELLS, arg: "half"}, parseCommand("cells:half"))
	assert.Equal(t, Command{code: TEXT, arg: "a:b"}, parseCommand("text:a:b"))
	assert.Equal(t, Command{code: TEXT, arg: "ひらがな"}, parseCommand("ひらがな"))
	assert.Equal(t, Command{code: FONT, arg: "Go,Go Mono"}, parseCommand("Font:Go,Go Mono"))
}

func newTestIntp(t *testing.T) *Intp {
	source := resources.NewPackagedSource(fontregistry.NewRegistry())
	intp := &Intp{
		source:   source,
		renderer: charrender.New(source, raster.NewEngine()),
		settings: Settings{Size: 24, Zoom: 1, Output: filepath.Join(t.TempDir(), "out.png")},
	}
	require.True(t, intp.setFamilies(" Go , Go Mono,"))
	assert.Equal(t, []string{"Go", "Go Mono"}, intp.families)
	return intp
}

func TestExecute(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "captext.render")
	defer teardown()
	//
	intp := newTestIntp(t)
	defer intp.renderer.Close()
	for _, line := range []string{"size:30", "cells:half", "stroke:1.5", "underline", "zoom:2", "out:x.png"} {
		quit, err := intp.execute(parseCommand(line))
		require.NoError(t, err, line)
		assert.False(t, quit)
	}
	assert.Equal(t, Settings{Size: 30, Cells: monospace.Half, Stroke: 1.5, Underline: true, Zoom: 2, Output: "x.png"},
		intp.settings)
	for _, line := range []string{"size:-1", "cells:double", "zoom:x", "stroke:", "out:", "font: , "} {
		_, err := intp.execute(parseCommand(line))
		assert.Error(t, err, line)
	}
	quit, err := intp.execute(parseCommand("quit"))
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestRenderText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "captext.render")
	defer teardown()
	//
	intp := newTestIntp(t)
	defer intp.renderer.Close()
	bm, missing := renderText(intp.renderer, "Hi あ", intp.settings)
	assert.Equal(t, []rune{'あ'}, missing)
	assert.Equal(t, 3*12+24+2*6, bm.Bounds().Dx(), "narrow characters get half-width cells")
	assert.Equal(t, 24+2*6, bm.Bounds().Dy())
	//
	intp.settings.Cells = monospace.Full
	bm, _ = renderText(intp.renderer, "Hi", intp.settings)
	assert.Equal(t, 2*24+2*6, bm.Bounds().Dx())
	//
	intp.settings.Cells = monospace.Half
	bm, missing = renderText(intp.renderer, "Hi", intp.settings)
	assert.Empty(t, missing)
	assert.Equal(t, 2*12+2*6, bm.Bounds().Dx())
	//
	bm, missing = renderText(intp.renderer, "", intp.settings)
	assert.Empty(t, missing)
	assert.Equal(t, 2*6, bm.Bounds().Dx(), "empty line is just the border")
	quit, err := intp.execute(parseCommand("text:"))
	require.NoError(t, err, "empty text is rendered")
	assert.False(t, quit)
	//
	intp.settings.Zoom = 3
	require.NoError(t, intp.render("Go"))
	f, err := os.Open(intp.settings.Output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 3*(2*12+2*6), img.Bounds().Dx())
}

func TestFontsAndFaces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "captext.fonts")
	defer teardown()
	//
	intp := newTestIntp(t)
	defer intp.renderer.Close()
	quit, err := intp.execute(parseCommand("fonts"))
	assert.NoError(t, err)
	assert.False(t, quit)
	//
	fpath := filepath.Join(t.TempDir(), "go.ttf")
	require.NoError(t, os.WriteFile(fpath, goregular.TTF, 0644))
	names, err := listFaces(fpath)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Contains(t, names[0], "Go")
	_, err = intp.execute(parseCommand("faces:" + fpath))
	assert.NoError(t, err)
	//
	_, err = intp.execute(parseCommand("faces:"))
	assert.Error(t, err)
	_, err = intp.execute(parseCommand("faces:" + filepath.Join(t.TempDir(), "none.ttf")))
	assert.Error(t, err)
}
