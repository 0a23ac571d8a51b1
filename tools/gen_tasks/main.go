// Command gen_tasks generates randomized task CSVs against the
// production map, for stress and regression runs.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
)

var (
	startPoints = []string{"SP01", "SP02", "SP03", "SP04", "SP05", "SP06"}
	endPoints   = []string{"EP01", "EP02", "EP03", "EP04", "EP05", "EP06", "EP07", "EP08", "EP09", "EP10"}
)

func main() {
	var (
		count = flag.Int("n", 100, "number of tasks")
		high  = flag.Int("high", 4, "number of high-priority tasks")
		seed  = flag.Int64("seed", 42, "random seed")
		out   = flag.String("out", "task_data.csv", "output file")
	)
	flag.Parse()

	if *high > *count {
		fmt.Fprintln(os.Stderr, "more high-priority tasks than tasks")
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))

	// Spread the high-priority tasks evenly through the list, with
	// deadlines growing later for later tasks.
	highAt := make(map[int]int)
	if *high > 0 {
		stride := *count / *high
		for i := 0; i < *high; i++ {
			idx := i*stride + rng.Intn(stride)
			highAt[idx] = 150 + i*50
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"id", "start_point", "end_point", "priority", "remaining_time"}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for i := 0; i < *count; i++ {
		record := []string{
			fmt.Sprintf("T%03d", i+1),
			startPoints[rng.Intn(len(startPoints))],
			endPoints[rng.Intn(len(endPoints))],
			"Normal",
			"",
		}
		if deadline, ok := highAt[i]; ok {
			record[3] = "High"
			record[4] = strconv.Itoa(deadline)
		}
		if err := w.Write(record); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Wrote %d tasks (%d high) to %s\n", *count, *high, *out)
}
