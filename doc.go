// Package glyphhost is the native host for a text rendering engine.
//
// The engine refers to strings (font families, file paths) by 32-bit atoms.
// A Host owns the one atom table shared by its components:
//
//   - canvas: a CPU drawing surface with HTML canvas style text helpers
//   - font: the font family registry used for drawing and measuring
//   - loader: the asynchronous bridge that asks the embedding application
//     for files and storage
//   - store: key/value storage for generated data
//   - sdf: the distance field collaborator
//   - texture: GPU texture descriptions for loaded images
//
// # Quick Start
//
//	h, err := glyphhost.New(glyphhost.WithConfig(glyphhost.Config{AssetDir: "assets"}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
//	family := h.FamilyAtom("Go")
//	c := h.Canvas()
//	c.FillBackground(64, 32)
//	c.SetFont(700, 24, family, 0)
//	c.DrawChar('A', 4, 4)
//
// # Atoms
//
// The atom table is a bijection: registering an atom or string that is
// already used removes the old pairing first, so String and Number are
// always inverse.
//
// # Logging
//
// By default glyphhost is silent. SetLogger installs a slog.Logger for hosts
// created afterwards; WithLogger sets one per host.
package glyphhost
