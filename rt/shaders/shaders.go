package shaders

import (
	_ "embed"
)

//go:embed octree_trace.wgsl
var OctreeTraceWGSL string

//go:embed fullscreen.wgsl
var FullscreenWGSL string
