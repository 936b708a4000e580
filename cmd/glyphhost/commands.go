package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pterm/pterm"

	"github.com/gogpu/glyphhost/atom"
	"github.com/gogpu/glyphhost/font"
	"github.com/gogpu/glyphhost/font/pack"
)

// cmdTimeout bounds commands that wait for the loader or the store.
const cmdTimeout = 5 * time.Second

type command struct {
	usage   string
	minArgs int
	fn      func(*Intp, []string) (bool, error)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"atom":     {"<string>", 1, atomOp},
		"register": {"<number> <string>", 2, registerOp},
		"lookup":   {"<number|string>", 1, lookupOp},
		"atoms":    {"", 0, atomsOp},
		"fill":     {"[width height]", 0, fillOp},
		"font":     {"<weight> <size> <family> [stroke]", 3, fontOp},
		"draw":     {"<char> <x> <y>", 3, drawOp},
		"stroke":   {"<char> <x> <y>", 3, strokeOp},
		"measure":  {"<char> <size> <family>", 3, measureOp},
		"height":   {"<family> <size>", 2, heightOp},
		"save":     {"<file.png>", 1, saveOp},
		"pack":     {"<size> <family> <text>", 3, packOp},
		"loadfont": {"<family> <weight> <path>", 3, loadFontOp},
		"load":     {"<image path>", 1, loadOp},
		"put":      {"<key> <value>", 2, putOp},
		"get":      {"<key>", 1, getOp},
		"del":      {"<key>", 1, delOp},
		"help":     {"[topic]", 0, helpOp},
		"quit":     {"", 0, quitOp},
	}
}

func quitOp(*Intp, []string) (bool, error) {
	return true, nil
}

func helpOp(_ *Intp, args []string) (bool, error) {
	topic := ""
	if len(args) > 0 {
		topic = args[0]
	}
	help(topic)
	return false, nil
}

// --- Atoms ----------------------------------------------------------------

func atomOp(intp *Intp, args []string) (bool, error) {
	a := intp.host.Atoms().Intern(args[0])
	pterm.Printf("%q => %d\n", args[0], a)
	return false, nil
}

func registerOp(intp *Intp, args []string) (bool, error) {
	n, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return false, fmt.Errorf("atom must be a 32-bit number: %w", err)
	}
	intp.host.Atoms().Register(atom.Atom(n), args[1])
	pterm.Printf("%d <=> %q\n", n, args[1])
	return false, nil
}

func lookupOp(intp *Intp, args []string) (bool, error) {
	atoms := intp.host.Atoms()
	if n, err := strconv.ParseUint(args[0], 10, 32); err == nil {
		if s, ok := atoms.String(atom.Atom(n)); ok {
			pterm.Printf("%d => %q\n", n, s)
		} else {
			pterm.Printf("%d is not registered\n", n)
		}
		return false, nil
	}
	if a, ok := atoms.Number(args[0]); ok {
		pterm.Printf("%q => %d\n", args[0], a)
	} else {
		pterm.Printf("%q is not registered\n", args[0])
	}
	return false, nil
}

func atomsOp(intp *Intp, _ []string) (bool, error) {
	atoms := intp.host.Atoms()
	if atoms.Len() == 0 {
		pterm.Println("no atoms registered")
		return false, nil
	}
	data := [][]string{
		{"Atom", "String"},
	}
	for a, s := range atoms.All() {
		data = append(data, []string{strconv.FormatUint(uint64(a), 10), s})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return false, nil
}

// --- Canvas ---------------------------------------------------------------

func fillOp(intp *Intp, args []string) (bool, error) {
	w, h := intp.host.Canvas().Size()
	if len(args) >= 2 {
		var err error
		if w, err = strconv.Atoi(args[0]); err != nil {
			return false, err
		}
		if h, err = strconv.Atoi(args[1]); err != nil {
			return false, err
		}
	}
	intp.host.Canvas().FillBackground(w, h)
	pterm.Printf("canvas %dx%d\n", w, h)
	return false, nil
}

func fontOp(intp *Intp, args []string) (bool, error) {
	ints, err := atois(args[0], args[1])
	if err != nil {
		return false, err
	}
	stroke := 0
	if len(args) > 3 {
		if stroke, err = strconv.Atoi(args[3]); err != nil {
			return false, err
		}
	}
	c := intp.host.Canvas()
	c.SetFont(ints[0], ints[1], intp.host.FamilyAtom(args[2]), stroke)
	pterm.Printf("font %s\n", c.Font())
	return false, nil
}

func drawOp(intp *Intp, args []string) (bool, error) {
	return drawChar(intp, args, false)
}

func strokeOp(intp *Intp, args []string) (bool, error) {
	return drawChar(intp, args, true)
}

func drawChar(intp *Intp, args []string, stroke bool) (bool, error) {
	code, err := charCode(args[0])
	if err != nil {
		return false, err
	}
	xy, err := atois(args[1], args[2])
	if err != nil {
		return false, err
	}
	if stroke {
		intp.host.Canvas().DrawCharWithStroke(code, xy[0], xy[1])
	} else {
		intp.host.Canvas().DrawChar(code, xy[0], xy[1])
	}
	return false, nil
}

func measureOp(intp *Intp, args []string) (bool, error) {
	code, err := charCode(args[0])
	if err != nil {
		return false, err
	}
	size, err := strconv.Atoi(args[1])
	if err != nil {
		return false, err
	}
	w := intp.host.Canvas().MeasureText(code, size, intp.host.FamilyAtom(args[2]))
	pterm.Printf("advance %.2fpx\n", w)
	return false, nil
}

func heightOp(intp *Intp, args []string) (bool, error) {
	size, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return false, err
	}
	h := intp.host.Canvas().GlobalMetricsHeight(intp.host.FamilyAtom(args[0]), size)
	pterm.Printf("line height %.2fpx\n", h)
	return false, nil
}

func saveOp(intp *Intp, args []string) (bool, error) {
	f, err := os.Create(args[0])
	if err != nil {
		return false, err
	}
	if err := intp.host.Canvas().EncodePNG(f); err != nil {
		f.Close()
		return false, err
	}
	if err := f.Close(); err != nil {
		return false, err
	}
	tracer().Infof("canvas written to %s", args[0])
	return false, nil
}

// packOp places text in the glyph atlas, resetting the atlas once if it
// is full.
func packOp(intp *Intp, args []string) (bool, error) {
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return false, err
	}
	family := intp.host.FamilyAtom(args[1])
	text := strings.Join(args[2:], " ")
	glyphs, err := intp.host.PackText(text, family, size)
	if errors.Is(err, pack.ErrFull) {
		tracer().Infof("glyph atlas full, resetting")
		intp.host.Atlas().Reset()
		glyphs, err = intp.host.PackText(text, family, size)
	}
	if err != nil {
		return false, err
	}
	data := [][]string{
		{"ID", "Char", "X", "Y", "Width", "Height"},
	}
	for _, g := range glyphs {
		data = append(data, []string{
			strconv.FormatUint(uint64(g.ID), 10),
			string(g.Key.Char),
			strconv.Itoa(g.Pos.X),
			strconv.Itoa(g.Pos.Y),
			strconv.Itoa(g.Width),
			strconv.Itoa(g.Height),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return false, nil
}

// --- Loading --------------------------------------------------------------

func loadFontOp(intp *Intp, args []string) (bool, error) {
	weight, err := strconv.Atoi(args[1])
	if err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()
	a, err := intp.host.LoadFont(ctx, args[0], font.ClassifyWeight(weight), args[2])
	if err != nil {
		return false, err
	}
	pterm.Printf("family %q is atom %d\n", args[0], a)
	return false, nil
}

func loadOp(intp *Intp, args []string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()
	tex, err := intp.host.LoadTexture(ctx, args[0], nil)
	if err != nil {
		return false, err
	}
	data := [][]string{
		{"Atom", "Size", "Format", "Bytes", "Opaque"},
		{
			strconv.FormatUint(uint64(tex.Atom), 10),
			fmt.Sprintf("%dx%d", tex.Width, tex.Height),
			fmt.Sprintf("%v", tex.Format),
			strconv.Itoa(tex.Size),
			strconv.FormatBool(tex.Opaque),
		},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return false, nil
}

// --- Store ----------------------------------------------------------------

func putOp(intp *Intp, args []string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()
	return false, intp.host.Store().Write(ctx, args[0], []byte(args[1]))
}

func getOp(intp *Intp, args []string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()
	data, ok, err := intp.host.Store().Get(ctx, args[0])
	if err != nil {
		return false, err
	}
	if !ok {
		pterm.Printf("%q not found\n", args[0])
		return false, nil
	}
	pterm.Printf("%q => %q\n", args[0], data)
	return false, nil
}

func delOp(intp *Intp, args []string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()
	return false, intp.host.Store().Delete(ctx, args[0])
}

// --- Helpers --------------------------------------------------------------

// charCode accepts a single character, a U+ code point, or a decimal or
// 0x-prefixed code. A lone digit is the character itself; small codes are
// written 0x5 or U+0005.
func charCode(s string) (uint32, error) {
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return uint32(r), nil
	}
	base := 0
	if len(s) > 2 && (s[:2] == "U+" || s[:2] == "u+") {
		s, base = s[2:], 16
	}
	n, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, errors.New("character must be one character, U+XXXX or a numeric code")
	}
	return uint32(n), nil
}

// splitArgs splits a command line at blanks. Single or double quotes group
// words, so families like "Go Mono" stay one argument.
func splitArgs(line string) ([]string, error) {
	var (
		args   []string
		cur    strings.Builder
		quote  rune
		inWord bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inWord = r, true
		case unicode.IsSpace(r):
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}

func atois(ss ...string) ([]int, error) {
	out := make([]int, len(ss))
	for i, s := range ss {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", s)
		}
		out[i] = n
	}
	return out, nil
}
