package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/IMMZEK/oscilloscope-lab-viewer/src/render"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/waveform"
)

// scopeinfo prints a quick summary of a capture without opening the viewer:
// metadata, sample counts and the per-channel auto measurements.
func main() {
	var file string
	flag.StringVar(&file, "file", "", "Path to a waveform CSV capture")
	flag.Parse()
	if file == "" && flag.NArg() > 0 {
		file = flag.Arg(0)
	}
	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: scopeinfo [-file] capture.csv")
		os.Exit(2)
	}

	f, err := os.Open(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	capt, err := waveform.Parse(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(capt.Meta) > 0 {
		keys := make([]string, 0, len(capt.Meta))
		for k := range capt.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s: %s\n", k, capt.Meta[k])
		}
		fmt.Println()
	}

	n := len(capt.Timebase)
	fmt.Printf("Samples: %d  Span: %s .. %s\n", n,
		render.FormatSeconds(capt.Timebase[0]), render.FormatSeconds(capt.Timebase[n-1]))
	for _, ch := range capt.Channels {
		st := waveform.Stats(capt.Timebase, ch.Values)
		fmt.Printf("%-6s Vpp %-10s Vmax %-10s Vmin %-10s mean %-10s",
			ch.ID, render.FormatVolts(st.VPP), render.FormatVolts(st.VMax),
			render.FormatVolts(st.VMin), render.FormatVolts(st.Mean))
		if st.Freq > 0 {
			fmt.Printf(" freq %-10s period %s", render.FormatHertz(st.Freq), render.FormatSeconds(st.Period))
		}
		fmt.Println()
	}
}
