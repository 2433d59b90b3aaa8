// Command fxinfo prints coefficients, stability and magnitude response of
// the biquad filter types, or renders a test signal through an effect chain.
//
// Usage:
//
//	fxinfo [flags] [type ...]
//	fxinfo -chain chain.json [flags]
//
// Without arguments it prints every type. With -chain it reads a chain
// document and prints input and output levels. Output is an aligned table
// on a terminal and CSV otherwise.
//
// Examples:
//
//	fxinfo lowpass peaking
//	fxinfo -freq 2000 -q 4 -gain 6 peaking
//	fxinfo -structure df1 -csv > responses.csv
//	fxinfo -list
//	fxinfo -chain chain.json -source noise -seconds 2
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/cwbudde/algo-fx/dsp/effectchain"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
	"github.com/cwbudde/algo-fx/dsp/filter/eq"
)

var defaultProbes = []float64{100, 1000, 10000}

func main() {
	log.SetFlags(0)
	log.SetPrefix("fxinfo: ")

	sampleRate := flag.Float64("fs", 48000, "sample rate in Hz")
	freq := flag.Float64("freq", 1000, "corner or centre frequency in Hz")
	q := flag.Float64("q", 0.7071067811865476, "quality factor")
	gain := flag.Float64("gain", 6, "gain in dB for shelving and peaking types")
	structure := flag.String("structure", "tdf2", "filter structure: tdf2, df1 or df2")
	irLength := flag.Int("n", 8192, "impulse response length for the measured response")
	probes := flag.String("probes", "", "comma-separated probe frequencies in Hz (default 100,1000,10000)")
	asCSV := flag.Bool("csv", false, "force CSV output")
	list := flag.Bool("list", false, "list filter and effect type names")
	chainPath := flag.String("chain", "", "render through the effect chain document at this path")
	source := flag.String("source", "sine", "render source: sine, saw, noise or impulse (uses -freq)")
	seconds := flag.Float64("seconds", 1, "render length in seconds")
	blockSize := flag.Int("block", 256, "render block size in frames")
	amplitude := flag.Float64("amp", 0.5, "render source amplitude")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fxinfo [flags] [type ...]\n")
		fmt.Fprintf(os.Stderr, "       fxinfo -chain chain.json [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints coefficients, stability and magnitude response of biquad filter types,\n")
		fmt.Fprintf(os.Stderr, "or input and output levels of a test signal rendered through an effect chain.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		for _, t := range eq.Types() {
			fmt.Println(t)
		}
		for _, t := range effectchain.DefaultRegistry().Types() {
			fmt.Println(t)
		}
		return
	}

	asTable := !*asCSV && term.IsTerminal(int(os.Stdout.Fd()))

	if *chainPath != "" {
		doc, err := os.ReadFile(*chainPath)
		if err != nil {
			log.Fatal(err)
		}
		levels, err := renderChain(string(doc), renderSettings{
			sampleRate: *sampleRate,
			blockSize:  *blockSize,
			seconds:    *seconds,
			source:     *source,
			freq:       *freq,
			amplitude:  *amplitude,
		})
		if err != nil {
			log.Fatal(err)
		}
		records := make([][]string, len(levels))
		for i, l := range levels {
			records[i] = levelFields(l)
		}
		if err := write(os.Stdout, asTable, levelHeader(), records); err != nil {
			log.Fatal(err)
		}
		return
	}

	st, err := parseStructure(*structure)
	if err != nil {
		log.Fatal(err)
	}
	freqs, err := parseProbes(*probes)
	if err != nil {
		log.Fatal(err)
	}
	types, err := resolveTypes(flag.Args())
	if err != nil {
		log.Fatal(err)
	}

	s := settings{
		sampleRate: *sampleRate,
		freq:       *freq,
		q:          *q,
		gainDB:     *gain,
		structure:  st,
		irLength:   *irLength,
		probes:     freqs,
	}
	rows, err := analyzeAll(context.Background(), types, s)
	if err != nil {
		log.Fatal(err)
	}

	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = fields(r)
	}
	if err := write(os.Stdout, asTable, header(s.probes), records); err != nil {
		log.Fatal(err)
	}
}

func write(w io.Writer, asTable bool, cols []string, records [][]string) error {
	if asTable {
		return writeTable(w, cols, records)
	}
	return writeCSV(w, cols, records)
}

func parseStructure(name string) (biquad.Structure, error) {
	switch strings.ToLower(name) {
	case "tdf2":
		return biquad.TransposedDirectForm2, nil
	case "df1":
		return biquad.DirectForm1, nil
	case "df2":
		return biquad.DirectForm2, nil
	default:
		return 0, fmt.Errorf("unknown structure %q", name)
	}
}

func parseProbes(list string) ([]float64, error) {
	if strings.TrimSpace(list) == "" {
		return defaultProbes, nil
	}
	var out []float64
	for _, field := range strings.Split(list, ",") {
		hz, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil || hz <= 0 {
			return nil, fmt.Errorf("invalid probe frequency %q", field)
		}
		out = append(out, hz)
	}
	return out, nil
}

func resolveTypes(names []string) ([]eq.Type, error) {
	if len(names) == 0 {
		return eq.Types(), nil
	}

	byName := make(map[string]eq.Type)
	for _, t := range eq.Types() {
		byName[t.String()] = t
	}

	var out []eq.Type
	for _, name := range names {
		t, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown filter type %q (use -list to see available)", name)
		}
		out = append(out, t)
	}
	return out, nil
}

func header(probes []float64) []string {
	cols := []string{"Type", "b0", "b1", "b2", "a1", "a2", "Stable"}
	for _, hz := range probes {
		cols = append(cols, fmt.Sprintf("|H| %g Hz [dB]", hz))
	}
	return append(cols, "Max IR error [dB]")
}

func fields(r row) []string {
	c := r.coeffs
	out := []string{
		r.typ.String(),
		strconv.FormatFloat(c.B0, 'f', 6, 64),
		strconv.FormatFloat(c.B1, 'f', 6, 64),
		strconv.FormatFloat(c.B2, 'f', 6, 64),
		strconv.FormatFloat(c.A1, 'f', 6, 64),
		strconv.FormatFloat(c.A2, 'f', 6, 64),
		strconv.FormatBool(r.stable),
	}
	for _, db := range r.designDB {
		out = append(out, strconv.FormatFloat(db, 'f', 2, 64))
	}
	return append(out, strconv.FormatFloat(r.maxErrDB, 'e', 1, 64))
}

func writeTable(w io.Writer, cols []string, records [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(cols, "\t")); err != nil {
		return err
	}
	dashes := make([]string, len(cols))
	for i, c := range cols {
		dashes[i] = strings.Repeat("-", len(c))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(dashes, "\t")); err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := fmt.Fprintln(tw, strings.Join(rec, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeCSV(w io.Writer, cols []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}
