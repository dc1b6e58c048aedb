// Command mkvolume builds a FAT32 boot volume image from a directory of
// files. Names must fit 8.3.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"ember/emberos/fat/fatimg"
)

func main() {
	var (
		out = flag.String("out", "volume.img", "Output image path.")
		dir = flag.String("dir", "", "Directory whose files go into the volume root.")
	)
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "mkvolume: -dir is required")
		os.Exit(2)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mkvolume:", err)
		os.Exit(1)
	}

	var files []fatimg.File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(*dir, e.Name()))
		if err != nil {
			fmt.Fprintln(os.Stderr, "mkvolume:", err)
			os.Exit(1)
		}
		files = append(files, fatimg.File{Name: e.Name(), Data: data})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	img, err := fatimg.Build(files)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mkvolume:", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, img, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "mkvolume:", err)
		os.Exit(1)
	}
	fmt.Printf("mkvolume: wrote %s (%d files, %d bytes)\n", *out, len(files), len(img))
}
