/*
Package fontregistry manages a registry for fonts held in memory.

Besides the registry, the package offers heuristics for guessing style
and weight of a font from its file name.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'captext.fonts'
func tracer() tracing.Trace {
	return tracing.Select("captext.fonts")
}
