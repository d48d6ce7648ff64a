package charrender

import (
	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/captext/core/font"
	"github.com/npillmayer/captext/core/font/opentype/ot"
)

// faceSlot holds a loaded face together with what depends on it: the
// font data the face has been loaded from, the index of the font family
// it belongs to, and the face's half-width substitutions, computed when
// first needed.
type faceSlot struct {
	face      font.Face
	data      []byte
	family    int
	halfWidth ot.SubstitutionMap // nil until computed
}

func (slot *faceSlot) loaded() bool {
	return slot.face != nil
}

// reset releases the slot's face and everything derived from it.
func (slot *faceSlot) reset() {
	if slot.face != nil {
		if err := slot.face.Close(); err != nil {
			tracer().Errorf("closing face: %v", err)
		}
	}
	*slot = faceSlot{}
}

// substitutions returns the half-width substitutions of the slot's face.
func (slot *faceSlot) substitutions() ot.SubstitutionMap {
	if slot.halfWidth == nil {
		slot.halfWidth = ot.HalfWidthSubstitutions(slot.face)
		tracer().Debugf("face has %d half-width substitutions", len(slot.halfWidth))
	}
	return slot.halfWidth
}

// resolveFace loads a face into slot. Font families are tried in order,
// starting at family index begin. The first family the source is able to
// locate (with a glyph for codepoint, if codepoint is not 0) wins.
//
// Returns the face and the index of its family. If no family could be located,
// the error of the last lookup is returned. The slot is left untouched
// unless a font has been located.
func (r *Renderer) resolveFace(slot *faceSlot, codepoint rune, begin int) (font.Face, int, error) {
	if begin >= len(r.families) {
		return nil, begin, core.Error(core.EMISSING, "no font family left to try at position %d", begin)
	}
	var info font.FaceInfo
	var err error
	inx := begin
	for ; inx < len(r.families); inx++ {
		if info, err = r.source.Lookup(r.families[inx], codepoint); err == nil {
			break
		}
		tracer().Debugf("font family %q not usable: %v", r.families[inx], err)
	}
	if err != nil {
		return nil, inx, err
	}
	slot.reset()
	face, err := r.loadFace(info)
	if err != nil {
		return nil, inx, err
	}
	slot.face, slot.data, slot.family = face, info.Data, inx
	tracer().Debugf("using font family %q for U+%04X", r.families[inx], codepoint)
	return face, inx, nil
}

// loadFace loads the face described by info. If the source did not tell the
// face index within a collection, the face is selected by its names.
func (r *Renderer) loadFace(info font.FaceInfo) (font.Face, error) {
	if info.Index >= 0 {
		return r.engine.LoadFace(info.Data, info.Path, info.Index)
	}
	if !info.HasMetadata() {
		return nil, core.Error(core.EINVALID, "font %q: face index unknown and no names to select a face",
			info.Path)
	}
	first, err := r.engine.LoadFace(info.Data, info.Path, -1)
	if err != nil {
		return nil, err
	}
	n := first.NumFaces()
	first.Close()
	for i := 0; i < n; i++ {
		face, err := r.engine.LoadFace(info.Data, info.Path, i)
		if err != nil {
			return nil, err
		}
		if faceMatches(face, info) {
			tracer().Debugf("selected face %d of %d for %s/%s", i, n, info.Family, info.PostScriptName)
			return face, nil
		}
		face.Close()
	}
	return nil, core.Error(core.EINVALID, "font %q: no face matches %q/%q",
		info.Path, info.Family, info.PostScriptName)
}

// faceMatches is true if the PostScript name of a face is the one of info.
// Otherwise a family name or full name of the face has to equal info.Family.
func faceMatches(face font.Face, info font.FaceInfo) bool {
	if info.PostScriptName != "" && face.PostScriptName() == info.PostScriptName {
		return true
	}
	if info.Family == "" {
		return false
	}
	for _, rec := range face.Names() {
		if rec.NameID != ot.NameIDFamily && rec.NameID != ot.NameIDFull {
			continue
		}
		if rec.String() == info.Family {
			return true
		}
	}
	return false
}

// resolveErrorStatus translates errors from locating and loading fonts.
var resolveErrorStatus = map[int]Status{
	core.NOERROR:   StatusOK,
	core.EMISSING:  StatusOtherError,
	core.EINVALID:  StatusOtherError,
	core.EEXTERNAL: StatusOtherError,
	core.EINTERNAL: StatusOtherError,
}

func statusForResolveError(err error) Status {
	if err == nil {
		return StatusOK
	}
	if st, ok := resolveErrorStatus[core.Code(err)]; ok {
		return st
	}
	return StatusOtherError
}
