// Command xtci is the host-side tool for working with XTC/XTCH e-book
// containers: inspecting a container's structure, scanning a books
// directory, rebuilding the on-disk catalog, watching a directory on a
// schedule, and rendering a page to a PGM for visual inspection.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "inspect":
		err = runInspect(os.Args[2:])
	case "scan":
		err = runScan(os.Args[2:])
	case "rebuild-catalog":
		err = runRebuildCatalog(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "xtci:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: xtci <command> [args]

commands:
  inspect <file>                           print a container's header, chapters, and page table
  scan <books-dir>                         run the library scan over a directory and print entries
  rebuild-catalog <books-dir> <catalog>    rescan and rewrite the catalog file
  watch <config.yaml>                      rebuild the catalog on a cron schedule
  render <file> <page> <out.pgm>           render one page to a PGM file`)
}
