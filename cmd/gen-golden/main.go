package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/xmlf"
)

func main() {
	root := "testdata"
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".xml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		fatalf("walk %s: %v", root, err)
	}
	if len(paths) == 0 {
		fatalf("no xml files found under %s", root)
	}
	modes := []xmlf.Mode{xmlf.ModeBeautify, xmlf.ModeCompress, xmlf.ModeJSON}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fatalf("read %s: %v", path, err)
		}
		for _, mode := range modes {
			out, err := xmlf.Transform(mode, string(src))
			if err != nil {
				fatalf("transform %s %s: %v", path, mode, err)
			}
			goldenPath := goldenPath(root, path, mode)
			if err := os.WriteFile(goldenPath, []byte(out), 0o644); err != nil {
				fatalf("write %s: %v", goldenPath, err)
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", goldenPath)
		}
	}
}

func goldenPath(root string, xmlPath string, mode xmlf.Mode) string {
	rel, err := filepath.Rel(root, xmlPath)
	if err != nil {
		rel = xmlPath
	}
	name := strings.TrimSuffix(rel, ".xml")
	name = strings.ReplaceAll(filepath.ToSlash(name), "/", "__")
	return filepath.Join(root, fmt.Sprintf("%s.%s.golden", name, mode))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
