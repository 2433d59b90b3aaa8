// Package effectchain runs a serial chain of effect processors described by
// a JSON document.
//
// A chain document lists nodes in processing order:
//
//	{"nodes": [
//	  {"id": "ch", "type": "chorus", "params": {"mix": 0.4}},
//	  {"id": "pp", "type": "pingpong", "params": {"timeMs": 375, "feedback": 0.4}},
//	  {"id": "pn", "type": "pan", "bypassed": true}
//	]}
//
// Node types resolve through a Registry. DefaultRegistry knows every
// effect of this module.
package effectchain
