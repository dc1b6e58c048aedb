// Command mkapp emits a minimal ELF64 executable the kernel can load and
// the host machine can run: its body is the return stub mov eax, imm32;
// ret.
package main

import (
	"flag"
	"fmt"
	"os"

	"ember/emberos/elf/elfgen"
)

func main() {
	var (
		out = flag.String("out", "app.elf", "Output path.")
		ret = flag.Int("ret", 0, "Exit status the program returns.")
		bss = flag.Uint64("bss", 0, "Extra zero-initialized bytes after the text segment.")
	)
	flag.Parse()

	var img []byte
	if *bss == 0 {
		img = elfgen.BuildReturnApp(int32(*ret))
	} else {
		stub := elfgen.ReturnStub(int32(*ret))
		img = elfgen.Build(elfgen.Base, []elfgen.Segment{{
			VAddr: elfgen.Base,
			Data:  stub,
			MemSz: uint64(len(stub)) + *bss,
		}})
	}

	if err := os.WriteFile(*out, img, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "mkapp:", err)
		os.Exit(1)
	}
	fmt.Printf("mkapp: wrote %s (%d bytes, ret=%d)\n", *out, len(img), *ret)
}
