package ot

// Feature, script and language system used for half-width forms of
// Hiragana and Katakana glyphs.
var (
	FeatureHalfWidth = T("hwid")
	ScriptKana       = T("kana")
	LangSysJapanese  = T("JAN ")
)

// SubstitutionMap maps glyphs to their substitutes. It is the result of
// collecting single substitutions (GSUB lookup type 1) for a feature.
type SubstitutionMap map[GlyphIndex]GlyphIndex

// TableSource is a font able to hand out the bytes of one of its tables.
// If the font does not contain a table for tag, an error is returned.
type TableSource interface {
	RawTable(tag Tag) ([]byte, error)
}

// GSUB lookup types we care about
const (
	gsubLookupSingle    uint16 = 1
	gsubLookupExtension uint16 = 7
)

const (
	gsubHeaderSize     = 10
	scriptRecordSize   = 6
	langSysRecordSize  = 6
	featureRecordSize  = 6
	rangeRecordSize    = 6
	noRequiredFeature  = 0xffff
	extensionTableSize = 8
)

// HalfWidthSubstitutions returns the half-width forms of Kana glyphs of a font,
// i.e. the single substitutions of feature 'hwid' for script 'kana' and
// language system 'JAN '.
func HalfWidthSubstitutions(src TableSource) SubstitutionMap {
	return LoadSingleSubstitutions(src, FeatureHalfWidth, ScriptKana, LangSysJapanese)
}

// LoadSingleSubstitutions reads the 'GSUB' table of a font and collects the
// single substitutions for a feature, given a script and a language system.
// See ParseSingleSubstitutions.
func LoadSingleSubstitutions(src TableSource, feature, script, langSys Tag) SubstitutionMap {
	gsub, err := src.RawTable(T("GSUB"))
	if err != nil {
		tracer().Debugf("font has no GSUB table: %v", err)
		return SubstitutionMap{}
	}
	return ParseSingleSubstitutions(gsub, feature, script, langSys)
}

// ParseSingleSubstitutions collects the single substitutions (lookup type 1,
// possibly wrapped into extension lookups) for a feature from the binary data
// of a 'GSUB' table. Features are located by a script tag and a language
// system tag. If no language system matches, the script's default language
// system is used. The first script record matching the script tag wins.
//
// ParseSingleSubstitutions will never return nil. If the table does not
// contain the feature, or if it is malformed in any way, an empty map is
// returned. Lookups of other types than single substitution are ignored.
// If more than one lookup substitutes a glyph, the last one wins.
func ParseSingleSubstitutions(gsub []byte, feature, script, langSys Tag) SubstitutionMap {
	subst, err := parseSingleSubstitutions(binarySegm(gsub), feature, script, langSys)
	if err != nil {
		tracer().Debugf("GSUB %s/%s/%s not usable: %v", feature, script, langSys, err)
		return SubstitutionMap{}
	}
	tracer().Debugf("GSUB %s/%s/%s has %d single substitutions", feature, script, langSys, len(subst))
	return subst
}

// GSUB Header:
// uint16           majorVersion
// uint16           minorVersion
// Offset16         scriptListOffset
// Offset16         featureListOffset
// Offset16         lookupListOffset
// Offset32         featureVariationsOffset (version 1.1 only)
func parseSingleSubstitutions(b binarySegm, feature, script, langSys Tag) (SubstitutionMap, error) {
	subst := SubstitutionMap{}
	if len(b) < gsubHeaderSize {
		return nil, errFontFormat("GSUB header truncated")
	}
	scriptList, _ := b.u16(4)
	featureList, _ := b.u16(6)
	lookupList, _ := b.u16(8)
	featureInx, err := scriptFeatureIndices(b, int(scriptList), script, langSys)
	if err != nil {
		return nil, err
	}
	if len(featureInx) == 0 {
		return subst, nil
	}
	featureCount, err := b.u16(int(featureList))
	if err != nil {
		return nil, err
	}
	lookupCount, err := b.u16(int(lookupList))
	if err != nil {
		return nil, err
	}
	// FeatureList table:
	// uint16           featureCount
	// FeatureRecord    featureRecords[featureCount]
	//
	// FeatureRecord:
	// Tag              featureTag
	// Offset16         featureOffset
	for _, inx := range featureInx {
		if inx >= featureCount {
			return nil, errFontFormat("feature index out of range")
		}
		rec := int(featureList) + 2 + int(inx)*featureRecordSize
		tag, err := b.tag(rec)
		if err != nil {
			return nil, err
		}
		if tag != feature {
			continue
		}
		off, err := b.u16(rec + 4)
		if err != nil {
			return nil, err
		}
		lookups, err := featureLookupIndices(b, int(featureList)+int(off))
		if err != nil {
			return nil, err
		}
		// LookupList table:
		// uint16           lookupCount
		// Offset16         lookupOffsets[lookupCount]
		offsets := make([]int, len(lookups))
		for i, li := range lookups {
			if li >= lookupCount {
				return nil, errFontFormat("lookup index out of range")
			}
			off, err := b.u16(int(lookupList) + 2 + 2*int(li))
			if err != nil {
				return nil, err
			}
			offsets[i] = int(lookupList) + int(off)
		}
		cc := newCoverageCache()
		for _, at := range lastOccurrences(offsets) {
			if err = collectLookup(b, at, subst, cc); err != nil {
				return nil, err
			}
		}
		break // only the first matching feature is used
	}
	return subst, nil
}

// ScriptList table:
// uint16           scriptCount
// ScriptRecord     scriptRecords[scriptCount]
//
// ScriptRecord:
// Tag              scriptTag
// Offset16         scriptOffset
//
// Script table:
// Offset16         defaultLangSysOffset
// uint16           langSysCount
// LangSysRecord    langSysRecords[langSysCount]
//
// LangSysRecord:
// Tag              langSysTag
// Offset16         langSysOffset
func scriptFeatureIndices(b binarySegm, scriptList int, script, langSys Tag) ([]uint16, error) {
	count, err := b.u16(scriptList)
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(count); i++ {
		rec := scriptList + 2 + i*scriptRecordSize
		tag, err := b.tag(rec)
		if err != nil {
			return nil, err
		}
		if tag != script {
			continue
		}
		off, err := b.u16(rec + 4)
		if err != nil {
			return nil, err
		}
		scriptTable := scriptList + int(off)
		hdr, err := b.view(scriptTable, 4)
		if err != nil {
			return nil, err
		}
		lsys, found := 0, false
		if dflt := u16(hdr); dflt != 0 {
			lsys, found = scriptTable+int(dflt), true
		}
		for j := 0; j < int(u16(hdr[2:])); j++ {
			lrec, err := b.view(scriptTable+4+j*langSysRecordSize, langSysRecordSize)
			if err != nil {
				return nil, err
			}
			if MakeTag(lrec[:4]) == langSys {
				if loff := u16(lrec[4:]); loff != 0 {
					lsys, found = scriptTable+int(loff), true
				}
				break
			}
		}
		if !found {
			tracer().Debugf("script %s has neither %s nor a default language system", script, langSys)
			continue
		}
		return langSysFeatureIndices(b, lsys)
	}
	return nil, nil
}

// LangSys table:
// Offset16 lookupOrderOffset
// uint16   requiredFeatureIndex
// uint16   featureIndexCount
// uint16   featureIndices[featureIndexCount]
func langSysFeatureIndices(b binarySegm, lsys int) ([]uint16, error) {
	hdr, err := b.view(lsys, 6)
	if err != nil {
		return nil, err
	}
	required, count := u16(hdr[2:]), u16(hdr[4:])
	indices := make([]uint16, 0, int(count)+1)
	if required != noRequiredFeature {
		indices = append(indices, required)
	}
	arr, err := b.view(lsys+6, 2*int(count))
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(count); i++ {
		indices = append(indices, u16(arr[2*i:]))
	}
	return indices, nil
}

// Feature table:
// Offset16     featureParamsOffset
// uint16       lookupIndexCount
// uint16       lookupListIndices[lookupIndexCount]
func featureLookupIndices(b binarySegm, feat int) ([]uint16, error) {
	hdr, err := b.view(feat, 4)
	if err != nil {
		return nil, err
	}
	if u16(hdr) != 0 {
		// FeatureParams are defined only for 'cv01'-'cv99', 'size', and 'ss01'-'ss20'
		return nil, errFontFormat("feature has parameters")
	}
	count := int(u16(hdr[2:]))
	arr, err := b.view(feat+4, 2*count)
	if err != nil {
		return nil, err
	}
	indices := make([]uint16, count)
	for i := range indices {
		indices[i] = u16(arr[2*i:])
	}
	return indices, nil
}

// Lookup table:
// uint16           lookupType
// uint16           lookupFlag
// uint16           subTableCount
// Offset16         subtableOffsets[subTableCount]
//
// Extension Substitution Subtable Format 1:
// uint16       substFormat
// uint16       extensionLookupType
// Offset32     extensionOffset
func collectLookup(b binarySegm, lookup int, subst SubstitutionMap, cc *coverageCache) error {
	hdr, err := b.view(lookup, 6)
	if err != nil {
		return err
	}
	lookupType, flag, count := u16(hdr), u16(hdr[2:]), int(u16(hdr[4:]))
	tracer().Debugf("GSUB lookup type %d, flag 0x%04x, %d subtables", lookupType, flag, count)
	arr, err := b.view(lookup+6, 2*count)
	if err != nil {
		return err
	}
	subtables := make([]int, count)
	for i := range subtables {
		subtables[i] = lookup + int(u16(arr[2*i:]))
	}
	for _, sub := range lastOccurrences(subtables) {
		format, err := b.u16(sub)
		if err != nil {
			return err
		}
		subType := lookupType
		if lookupType == gsubLookupExtension {
			if format != 1 {
				continue
			}
			ext, err := b.view(sub, extensionTableSize)
			if err != nil {
				return err
			}
			subType = u16(ext[2:])
			if sub, err = b.offset(sub, u32(ext[4:])); err != nil {
				return err
			}
			if format, err = b.u16(sub); err != nil {
				return err
			}
		}
		if subType != gsubLookupSingle {
			continue
		}
		if err = collectSingleSubst(b, sub, format, subst, cc); err != nil {
			return err
		}
	}
	return nil
}

// Single Substitution Format 1:
// uint16   substFormat
// Offset16 coverageOffset
// int16    deltaGlyphID
//
// Single Substitution Format 2:
// uint16   substFormat
// Offset16 coverageOffset
// uint16   glyphCount
// uint16   substituteGlyphIDs[glyphCount]
func collectSingleSubst(b binarySegm, sub int, format uint16, subst SubstitutionMap, cc *coverageCache) error {
	covOffset, err := b.u16(sub + 2)
	if err != nil {
		return err
	}
	coverage, err := cc.coverage(b, sub+int(covOffset))
	if err != nil {
		return err
	}
	switch format {
	case 1:
		delta, err := b.i16(sub + 4)
		if err != nil {
			return err
		}
		for _, g := range coverage {
			subst[g] = GlyphIndex(uint16(g) + uint16(delta)) // modulo 65536
		}
	case 2:
		count, err := b.u16(sub + 4)
		if err != nil {
			return err
		}
		if int(count) != len(coverage) {
			return errFontFormat("substitute count does not match coverage")
		}
		arr, err := b.view(sub+6, 2*int(count))
		if err != nil {
			return err
		}
		for i, g := range coverage {
			subst[g] = GlyphIndex(u16(arr[2*i:]))
		}
	default:
		tracer().Debugf("ignoring single substitution of unknown format %d", format)
	}
	return nil
}

// lastOccurrences drops all but the last occurrence of every offset, keeping
// the order. Applying a subtable again overwrites everything it wrote before,
// so only its last application has an effect.
func lastOccurrences(offsets []int) []int {
	last := make(map[int]int, len(offsets))
	for i, at := range offsets {
		last[at] = i
	}
	unique := make([]int, 0, len(last))
	for i, at := range offsets {
		if last[at] == i {
			unique = append(unique, at)
		}
	}
	return unique
}

// maxCoveredGlyphs limits the number of substitutions collected from a
// single feature, counting every subtable's glyphs.
const maxCoveredGlyphs = 1 << 20

// coverageCache parses every coverage table once, as subtables may share
// them. It keeps count of the glyphs handed out.
type coverageCache struct {
	tables map[int][]GlyphIndex
	budget int
}

func newCoverageCache() *coverageCache {
	return &coverageCache{tables: make(map[int][]GlyphIndex), budget: maxCoveredGlyphs}
}

func (cc *coverageCache) coverage(b binarySegm, at int) ([]GlyphIndex, error) {
	glyphs, ok := cc.tables[at]
	if !ok {
		var err error
		if glyphs, err = parseCoverage(b, at); err != nil {
			return nil, err
		}
		cc.tables[at] = glyphs
	}
	if cc.budget -= len(glyphs); cc.budget < 0 {
		return nil, errFontFormat("too many substitutions")
	}
	return glyphs, nil
}

// parseCoverage reads a coverage table, which comes in two formats (1 and 2).
// A Coverage table defines a unique index value, the Coverage Index, for each
// covered glyph. The glyphs are returned in coverage index order.
//
// Coverage Format 1:
// uint16       coverageFormat
// uint16       glyphCount
// uint16       glyphArray[glyphCount]
//
// Coverage Format 2:
// uint16       coverageFormat
// uint16       rangeCount
// RangeRecord  rangeRecords[rangeCount]
//
// RangeRecord:
// uint16       startGlyphID
// uint16       endGlyphID
// uint16       startCoverageIndex
func parseCoverage(b binarySegm, at int) ([]GlyphIndex, error) {
	hdr, err := b.view(at, 4)
	if err != nil {
		return nil, err
	}
	format, count := u16(hdr), int(u16(hdr[2:]))
	switch format {
	case 1:
		arr, err := b.view(at+4, 2*count)
		if err != nil {
			return nil, err
		}
		glyphs := make([]GlyphIndex, count)
		for i := range glyphs {
			glyphs[i] = GlyphIndex(u16(arr[2*i:]))
		}
		return glyphs, nil
	case 2:
		recs, err := b.view(at+4, rangeRecordSize*count)
		if err != nil {
			return nil, err
		}
		var glyphs []GlyphIndex
		next := 0 // running coverage index
		for i := 0; i < count; i++ {
			rec := recs[i*rangeRecordSize:]
			start, end, startInx := int(u16(rec)), int(u16(rec[2:])), int(u16(rec[4:]))
			if start > end || startInx != next {
				return nil, errFontFormat("inconsistent coverage range record")
			}
			for g := start; g <= end; g++ {
				glyphs = append(glyphs, GlyphIndex(g))
			}
			next += end - start + 1
		}
		return glyphs, nil
	}
	return nil, errFontFormat("unknown coverage format")
}
