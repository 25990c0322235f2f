package furshell

import _ "embed"

//go:embed shaders/fur.wgsl
var furWGSL string

//go:embed shaders/debug.wgsl
var debugWGSL string
