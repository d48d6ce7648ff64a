package ot

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

func TestNameRecordsOfGoFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "captext.fonts")
	defer teardown()
	//
	name, err := TableFromBytes(goregular.TTF, 0, T("name"))
	require.NoError(t, err)
	records, err := NameRecords(name)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	//
	f, err := sfnt.Parse(goregular.TTF)
	require.NoError(t, err)
	for id, sfntID := range map[uint16]sfnt.NameID{
		NameIDFamily:     sfnt.NameIDFamily,
		NameIDPostScript: sfnt.NameIDPostScript,
	} {
		expected, err := f.Name(nil, sfntID)
		require.NoError(t, err)
		found := false
		for _, rec := range records {
			if rec.NameID == id && rec.String() == expected {
				found = true
			}
		}
		assert.True(t, found, "expected name record %d = %q", id, expected)
	}
}

func TestNameRecordEncodings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "captext.fonts")
	defer teardown()
	//
	utf16 := []byte{0, 'G', 0, 'o', 0x30, 0x42} // "Goあ"
	mac := []byte("Go")
	w := &bbuf{}
	w.u16(0, 3, 6+12*3)
	w.u16(PlatformMicrosoft, 1, 0x409, NameIDFamily, uint16(len(utf16)), 0)
	w.u16(PlatformMacintosh, 0, 0, NameIDFamily, uint16(len(mac)), uint16(len(utf16)))
	w.u16(PlatformUnicode, 3, 0, NameIDFull, 100, 0) // out of range, skipped
	w.bytes(utf16, mac)
	//
	records, err := NameRecords(w.b)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Goあ", records[0].String())
	assert.Equal(t, uint16(0x409), records[0].LanguageID)
	assert.Equal(t, "Go", records[1].String())
	//
	_, err = NameRecords(w.b[:10])
	assert.Error(t, err, "truncated name records")
}
