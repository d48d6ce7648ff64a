package ot

import (
	"bytes"
	"io"

	"github.com/npillmayer/captext/core"
)

// MaxTableSize is the maximum size of a table ReadTable will load into memory.
var MaxTableSize uint32 = 30 * 1024 * 1024

// Font header versions we accept. OpenType fonts containing TrueType outlines
// use 0x00010000, fonts containing CFF data use 'OTTO'. The Apple specification
// additionally allows for 'true' and 'typ1'.
const (
	sfntVersionTrueType uint32 = 0x00010000
	sfntVersionCFF      uint32 = 0x4f54544f // OTTO
	sfntVersionApple    uint32 = 0x74727565 // true
	sfntVersionType1    uint32 = 0x74797031 // typ1
	ttcTag              uint32 = 0x74746366 // ttcf
)

const (
	offsetTableSize = 12
	tableRecordSize = 16
)

// TableFromBytes returns the bytes of a table of a font held in memory.
// See ReadTable.
func TableFromBytes(font []byte, faceIndex int, tag Tag) ([]byte, error) {
	return ReadTable(bytes.NewReader(font), faceIndex, tag)
}

// ReadTable reads the binary data of the table with tag `tag` from a font
// file or font collection. For collections (*.ttc, *.otc) faceIndex selects
// the font within the collection; for single fonts it must be 0 or negative.
//
// If the font does not contain the table, an error with code core.EMISSING
// is returned. Malformed table directories result in core.EINVALID.
func ReadTable(r io.ReaderAt, faceIndex int, tag Tag) ([]byte, error) {
	dir, err := tableDirectoryOffset(r, faceIndex)
	if err != nil {
		return nil, err
	}
	hdr, err := readAt(r, dir, offsetTableSize)
	if err != nil {
		return nil, errFontFormat("offset table truncated")
	}
	switch v := u32(hdr); v {
	case sfntVersionTrueType, sfntVersionCFF, sfntVersionApple, sfntVersionType1:
	default:
		return nil, errFontFormat("font type not supported: " + Tag(v).String())
	}
	numTables := int(u16(hdr[4:]))
	recs, err := readAt(r, dir+offsetTableSize, numTables*tableRecordSize)
	if err != nil {
		return nil, errFontFormat("table record entries truncated")
	}
	for i := 0; i < numTables; i++ {
		rec := recs[i*tableRecordSize:]
		if MakeTag(rec[:4]) != tag {
			continue
		}
		off, size := u32(rec[8:]), u32(rec[12:])
		if size > MaxTableSize {
			return nil, errFontFormat("table " + tag.String() + " exceeds size limit")
		}
		tracer().Debugf("table %s at offset %d has size %d", tag, off, size)
		b, err := readAt(r, int64(off), int(size))
		if err != nil {
			return nil, errFontFormat("table " + tag.String() + " truncated")
		}
		return b, nil
	}
	return nil, core.Error(core.EMISSING, "font has no table %s", tag)
}

// CollectionSize returns the number of fonts contained in a font file.
// Single fonts report 1.
func CollectionSize(r io.ReaderAt) (int, error) {
	hdr, err := readAt(r, 0, offsetTableSize)
	if err != nil {
		return 0, errFontFormat("font header truncated")
	}
	if u32(hdr) != ttcTag {
		return 1, nil
	}
	return int(u32(hdr[8:])), nil
}

// TTC Header:
// TAG      ttcTag
// uint16   majorVersion
// uint16   minorVersion
// uint32   numFonts
// Offset32 tableDirectoryOffsets[numFonts]
func tableDirectoryOffset(r io.ReaderAt, faceIndex int) (int64, error) {
	hdr, err := readAt(r, 0, offsetTableSize)
	if err != nil {
		return 0, errFontFormat("font header truncated")
	}
	if u32(hdr) != ttcTag {
		if faceIndex > 0 {
			return 0, core.Error(core.EMISSING, "font is not a collection, face %d requested", faceIndex)
		}
		return 0, nil
	}
	if faceIndex < 0 {
		faceIndex = 0
	}
	numFonts := u32(hdr[8:])
	if uint32(faceIndex) >= numFonts {
		return 0, core.Error(core.EMISSING, "font collection has %d fonts, face %d requested",
			numFonts, faceIndex)
	}
	off, err := readAt(r, int64(offsetTableSize+4*faceIndex), 4)
	if err != nil {
		return 0, errFontFormat("collection header truncated")
	}
	return int64(u32(off)), nil
}

func readAt(r io.ReaderAt, off int64, n int) (binarySegm, error) {
	if off < 0 || n < 0 {
		return nil, errBufferBounds
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	m, err := r.ReadAt(buf, off)
	if m < n {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}
