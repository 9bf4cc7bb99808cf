package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/disiqueira/gotree/v3"

	"github.com/ole2fs/cfbf"
)

func main() {
	strict := flag.Bool("strict", false, "fail on header/FAT/DIFAT inconsistencies instead of repairing them")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: cfbdump [-strict] file ...")
		os.Exit(1)
	}

	validation := cfbf.ValidationPermissive
	if *strict {
		validation = cfbf.ValidationStrict
	}

	for _, path := range flag.Args() {
		if err := dump(path, validation); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}
	}
}

func dump(path string, validation cfbf.Validation) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cf, err := cfbf.Open(f, validation)
	if err != nil {
		return err
	}

	h := cf.Header
	fmt.Printf("%s: version %d, %d fat sectors, %d minifat sectors, %d difat sectors\n",
		path, h.Version, h.NumFatSectors, h.NumMinifatSectors, h.NumDifatSectors)

	entries, err := cf.Directory.Entries()
	if err != nil {
		return err
	}

	tree := gotree.New(path)
	nodes := map[string]gotree.Tree{cfbf.RootEntryName: tree}

	for _, e := range entries {
		label := e.Name
		if e.ObjType == cfbf.ObjStream {
			label = fmt.Sprintf("%s (%d bytes)", e.Name, e.StreamLen)
		}
		parent := parentPath(e.Path)
		node := nodes[parent]
		if node == nil {
			node = tree
		}
		nodes[e.Path] = node.Add(label)
	}

	fmt.Println(tree.Print())
	return nil
}

func parentPath(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			if i == 0 {
				return ""
			}
			return path[:i]
		}
	}
	return ""
}
