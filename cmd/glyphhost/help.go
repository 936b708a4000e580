package main

import (
	"slices"
	"strings"

	"github.com/pterm/pterm"
)

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "atom", "atoms", "register", "lookup":
		pterm.Info.Println("Atoms")
		pterm.Println(`
	An atom is a 32-bit number standing in for a string.
	'atom <s>' interns s under its hash; 'register <n> <s>' pairs them explicitly.
	Pairs are one-to-one: registering a used atom or string drops the old pair.
	`)
	case "font", "draw", "stroke", "measure", "height":
		pterm.Info.Println("Canvas")
		pterm.Println(`
	'font <weight> <size> <family> [stroke]' selects the font. Weights up to 300
	are lighter, below 700 normal, below 900 bold, bolder above.
	'draw' fills a character in green, 'stroke' outlines it in red first.
	Characters are given literally or as codes (65, 0x41, U+0041).
	Quote multi-word families: font 400 16 "Go Mono".
	`)
	case "pack":
		pterm.Info.Println("Glyph atlas")
		pterm.Println(`
	'pack <size> <family> <text>' places every character of text in the glyph
	atlas and lists the cells. Repeated characters share a cell. A full atlas
	is reset and packed again.
	`)
	case "put", "get", "del", "store":
		pterm.Info.Println("Store")
		pterm.Println(`
	'put <key> <value>', 'get <key>' and 'del <key>' use the host store.
	`)
	default:
		names := make([]string, 0, len(commands))
		for name := range commands {
			names = append(names, name)
		}
		slices.Sort(names)
		data := [][]string{
			{"Command", "Arguments"},
		}
		for _, name := range names {
			data = append(data, []string{name, commands[name].usage})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
}
