package ot

import (
	"golang.org/x/text/encoding/unicode"
)

// Platform IDs of 'name' table records
const (
	PlatformUnicode   uint16 = 0
	PlatformMacintosh uint16 = 1
	PlatformMicrosoft uint16 = 3
)

// Name IDs of 'name' table records we are interested in
const (
	NameIDFamily            uint16 = 1
	NameIDSubfamily         uint16 = 2
	NameIDFull              uint16 = 4
	NameIDPostScript        uint16 = 6
	NameIDTypographicFamily uint16 = 16
)

// NameRecord is an entry of a font's 'name' table. Bytes holds the raw
// string data in the record's platform encoding.
type NameRecord struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     uint16
	Bytes      []byte
}

// String returns the record's string. Records of the Microsoft and Unicode
// platforms are decoded from UTF-16BE, all others are taken as-is.
func (rec NameRecord) String() string {
	switch rec.PlatformID {
	case PlatformMicrosoft, PlatformUnicode:
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		s, err := dec.Bytes(rec.Bytes)
		if err != nil {
			tracer().Debugf("cannot decode name record %d: %v", rec.NameID, err)
			return ""
		}
		return string(s)
	}
	return string(rec.Bytes)
}

// NameRecords parses the binary data of a 'name' table.
// Records with string data outside of the table are skipped.
//
// Naming table header:
// uint16       version
// uint16       count
// Offset16     storageOffset
// NameRecord   nameRecord[count]
//
// NameRecord:
// uint16       platformID
// uint16       encodingID
// uint16       languageID
// uint16       nameID
// uint16       length
// Offset16     stringOffset
func NameRecords(name []byte) ([]NameRecord, error) {
	b := binarySegm(name)
	hdr, err := b.view(0, 6)
	if err != nil {
		return nil, errFontFormat("name section corrupt")
	}
	count, storage := int(u16(hdr[2:])), int(u16(hdr[4:]))
	recs, err := b.view(6, 12*count)
	if err != nil {
		return nil, errFontFormat("name section corrupt")
	}
	tracer().Debugf("name table has %d strings, starting at %d", count, storage)
	records := make([]NameRecord, 0, count)
	for i := 0; i < count; i++ {
		r := recs[i*12:]
		str, err := b.view(storage+int(u16(r[10:])), int(u16(r[8:])))
		if err != nil {
			continue
		}
		records = append(records, NameRecord{
			PlatformID: u16(r),
			EncodingID: u16(r[2:]),
			LanguageID: u16(r[4:]),
			NameID:     u16(r[6:]),
			Bytes:      str,
		})
	}
	return records, nil
}
