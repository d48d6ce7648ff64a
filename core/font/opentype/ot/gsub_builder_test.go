package ot

// Helpers to assemble synthetic GSUB tables for tests. Layout is tight, i.e.
// every byte of a table built by buildGSUB is referenced by some structure.

type bbuf struct {
	b []byte
}

func (w *bbuf) u16(v ...uint16) *bbuf {
	for _, n := range v {
		w.b = append(w.b, byte(n>>8), byte(n))
	}
	return w
}

func (w *bbuf) u32(n uint32) *bbuf {
	w.b = append(w.b, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	return w
}

func (w *bbuf) tag(t string) *bbuf {
	w.b = append(w.b, []byte((t + "    ")[:4])...)
	return w
}

func (w *bbuf) bytes(p ...[]byte) *bbuf {
	for _, q := range p {
		w.b = append(w.b, q...)
	}
	return w
}

type testLangSys struct {
	tag      string
	required uint16
	features []uint16
}

type testScript struct {
	tag   string
	dflt  *testLangSys
	langs []testLangSys
}

type testFeature struct {
	tag     string
	params  uint16
	lookups []uint16
}

func langSys(tag string, features ...uint16) testLangSys {
	return testLangSys{tag: tag, required: noRequiredFeature, features: features}
}

func encodeLangSys(l testLangSys) []byte {
	w := &bbuf{}
	w.u16(0, l.required, uint16(len(l.features)))
	w.u16(l.features...)
	return w.b
}

func encodeScript(s testScript) []byte {
	off := 4 + langSysRecordSize*len(s.langs)
	var tables [][]byte
	dflt := 0
	if s.dflt != nil {
		t := encodeLangSys(*s.dflt)
		dflt, off = off, off+len(t)
		tables = append(tables, t)
	}
	w := &bbuf{}
	w.u16(uint16(dflt), uint16(len(s.langs)))
	for _, l := range s.langs {
		t := encodeLangSys(l)
		w.tag(l.tag).u16(uint16(off))
		off += len(t)
		tables = append(tables, t)
	}
	return w.bytes(tables...).b
}

func encodeFeature(f testFeature) []byte {
	w := &bbuf{}
	w.u16(f.params, uint16(len(f.lookups)))
	return w.u16(f.lookups...).b
}

// encodeTagList encodes a ScriptList or a FeatureList.
func encodeTagList(tags []string, tables [][]byte) []byte {
	w := &bbuf{}
	w.u16(uint16(len(tags)))
	off := 2 + 6*len(tags)
	for i, tag := range tags {
		w.tag(tag).u16(uint16(off))
		off += len(tables[i])
	}
	return w.bytes(tables...).b
}

func encodeLookupList(lookups [][]byte) []byte {
	w := &bbuf{}
	w.u16(uint16(len(lookups)))
	off := 2 + 2*len(lookups)
	for _, l := range lookups {
		w.u16(uint16(off))
		off += len(l)
	}
	return w.bytes(lookups...).b
}

func buildGSUB(scripts []testScript, features []testFeature, lookups ...[]byte) []byte {
	var stags, ftags []string
	var stables, ftables [][]byte
	for _, s := range scripts {
		stags = append(stags, s.tag)
		stables = append(stables, encodeScript(s))
	}
	for _, f := range features {
		ftags = append(ftags, f.tag)
		ftables = append(ftables, encodeFeature(f))
	}
	sl := encodeTagList(stags, stables)
	fl := encodeTagList(ftags, ftables)
	ll := encodeLookupList(lookups)
	w := &bbuf{}
	w.u16(1, 0, gsubHeaderSize, uint16(gsubHeaderSize+len(sl)), uint16(gsubHeaderSize+len(sl)+len(fl)))
	return w.bytes(sl, fl, ll).b
}

func lookup(lookupType uint16, subtables ...[]byte) []byte {
	w := &bbuf{}
	w.u16(lookupType, 0, uint16(len(subtables)))
	off := 6 + 2*len(subtables)
	for _, s := range subtables {
		w.u16(uint16(off))
		off += len(s)
	}
	return w.bytes(subtables...).b
}

// extension wraps a subtable into an Extension Substitution subtable.
func extension(realType uint16, subtable []byte) []byte {
	w := &bbuf{}
	w.u16(1, realType).u32(extensionTableSize)
	return w.bytes(subtable).b
}

func singleFormat1(coverage []byte, delta int16) []byte {
	w := &bbuf{}
	w.u16(1, 6, uint16(delta))
	return w.bytes(coverage).b
}

func singleFormat2(coverage []byte, substitutes ...uint16) []byte {
	w := &bbuf{}
	w.u16(2, uint16(6+2*len(substitutes)), uint16(len(substitutes)))
	w.u16(substitutes...)
	return w.bytes(coverage).b
}

func coverageFormat1(glyphs ...uint16) []byte {
	w := &bbuf{}
	w.u16(1, uint16(len(glyphs)))
	return w.u16(glyphs...).b
}

// coverageFormat2 takes triples of (start, end, startCoverageIndex).
func coverageFormat2(ranges ...[3]uint16) []byte {
	w := &bbuf{}
	w.u16(2, uint16(len(ranges)))
	for _, r := range ranges {
		w.u16(r[0], r[1], r[2])
	}
	return w.b
}

// kanaJapanese is a script list entry for 'kana' with a 'JAN ' language
// system referencing the given features.
func kanaJapanese(features ...uint16) []testScript {
	return []testScript{{
		tag:   "kana",
		langs: []testLangSys{langSys("JAN ", features...)},
	}}
}
