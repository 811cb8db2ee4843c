// Package io writes and reads harvested dependency trees.
//
// # Formats
//
// The JSON format is the primary output and is stable:
//
//	{
//	  "url": "github.com/me/project",
//	  "deps": [
//	    {
//	      "name": "zippy",
//	      "url": "github.com/guzba/zippy",
//	      "version": "0.10.4",
//	      "deps": [],
//	      "manifest": "nimble.lock"
//	    }
//	  ]
//	}
//
// Records appear in harvest order; "deps" is always an array, never null.
// HTML characters are not escaped, so requirement strings such as
// ">= 1.0 & < 2.0" are written as-is.
//
// The same tree can be written as YAML, TOML, Graphviz DOT, or an SVG
// rendered from the DOT source. See [Write] and [Export].
//
// # Import
//
// [ReadJSON] and [ImportJSON] read a JSON tree back, so a saved scan can be
// converted to another format without rescanning.
package io
