package font

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/image/font/sfnt"
)

// Describe reads the family name and weight class stored in a font file.
// The weight class is taken from the subfamily name, such as "Bold" or
// "Light"; files without one are Normal.
func Describe(data []byte) (family string, w Weight, err error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return "", Normal, fmt.Errorf("font: describe: %w", err)
	}
	var b sfnt.Buffer
	family, err = f.Name(&b, sfnt.NameIDFamily)
	if err != nil {
		return "", Normal, fmt.Errorf("font: family name: %w", err)
	}
	sub, err := f.Name(&b, sfnt.NameIDSubfamily)
	if err != nil {
		return family, Normal, nil
	}
	return family, subfamilyWeight(sub), nil
}

func subfamilyWeight(sub string) Weight {
	s := strings.ToLower(sub)
	switch {
	case strings.Contains(s, "black"), strings.Contains(s, "heavy"),
		strings.Contains(s, "extrabold"), strings.Contains(s, "ultrabold"):
		return Bolder
	case strings.Contains(s, "bold"):
		return Bold
	case strings.Contains(s, "thin"), strings.Contains(s, "light"):
		return Lighter
	default:
		return Normal
	}
}

// LoadFS registers every .ttf and .otf file below root in fsys under the
// family and weight it describes. It returns the number of faces registered.
// Files that fail to load are skipped and reported together in the error.
func (r *Registry) LoadFS(fsys fs.FS, root string) (int, error) {
	var n int
	var errs []error
	walkErr := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(path.Ext(p)) {
		case ".ttf", ".otf":
		default:
			return nil
		}
		if err := r.loadFile(fsys, p); err != nil {
			errs = append(errs, err)
			return nil
		}
		n++
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}
	return n, errors.Join(errs...)
}

func (r *Registry) loadFile(fsys fs.FS, p string) error {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return err
	}
	family, w, err := Describe(data)
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	if err := r.Register(family, w, data); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}
