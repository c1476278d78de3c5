// Package pkg provides the core libraries of the ideamap editing engine.
//
// # Overview
//
// Ideamap is the engine behind an interactive mind-map editor: a host
// application feeds it pointer events and renders the resulting scene.
// The pkg directory splits into two layers:
//
//  1. Core - the in-memory editor ([geom], [scene], [history], [editor])
//  2. Boundary - everything that crosses the process edge ([document],
//     [store], [assets], [expand], [outline], [render])
//
// # Architecture
//
// The typical flow of an editing session:
//
//	stored JSON document
//	         ↓ document.ToScene
//	scene.Scene + geom.Transform
//	         ↓ editor.NewSession
//	pointer events → editor.Session → scene mutations + history
//	         ↓ document.FromScene
//	stored JSON document → store / outline / render
//
// The core layer is deterministic and free of I/O; every blocking or
// fallible boundary operation takes a context and returns an error.
package pkg
