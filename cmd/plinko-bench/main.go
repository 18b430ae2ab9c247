// Command plinko-bench measures HintEngine throughput: construction time,
// streaming-build time, per-update latency for UpdateHint repeated across a
// configurable number of iterations, and per-call latency for GetHint over
// a fixed sample of coordinates. ConsumeHint is not exercised.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"plinkopir/internal/hintengine"
	"plinkopir/internal/ingest"
)

func main() {
	n := flag.Uint64("n", 1<<16, "database size (entries)")
	w := flag.Uint64("w", 256, "block size (entries)")
	lambda := flag.Uint("lambda", 2, "security parameter")
	q := flag.Uint("q", 64, "backup hint budget")
	repeat := flag.Int("repeat", 10, "number of update-benchmark iterations")
	updatesPerIter := flag.Int("updates", 1000, "updates applied per iteration")
	flag.Parse()

	if *n%*w != 0 {
		fmt.Fprintf(os.Stderr, "n=%d must be a multiple of w=%d\n", *n, *w)
		os.Exit(1)
	}

	var masterKey [32]byte
	for i := range masterKey {
		masterKey[i] = byte(i)
	}

	buildStart := time.Now()
	engine, err := hintengine.New(*n, *w, uint32(*lambda), uint32(*q), masterKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hintengine.New: %v\n", err)
		os.Exit(1)
	}
	buildDuration := time.Since(buildStart)
	fmt.Printf("construction: %s (c=%d blocks, numReg=%d numBkp=%d)\n",
		buildDuration, *n / *w, uint64(*lambda)*(*w), uint64(*q))

	source := ingest.NewSimulatedSource(*n, int(*w))
	streamStart := time.Now()
	for i, v := range source.InitialDatabase() {
		engine.ProcessEntry(uint64(i), v)
	}
	streamDuration := time.Since(streamStart)
	fmt.Printf("streaming build: %s (%.2f ns/entry)\n", streamDuration, float64(streamDuration.Nanoseconds())/float64(*n))

	updateSource := ingest.NewSimulatedSource(*n, 1)
	runUpdateBenchmark(engine, updateSource, *repeat, *updatesPerIter)
	runQueryBenchmark(engine, *n, *w)
}

func runUpdateBenchmark(engine *hintengine.Engine, source *ingest.SimulatedSource, repeat, updatesPerIter int) {
	var total, min, max time.Duration
	min = time.Duration(1<<63 - 1)

	for iter := 1; iter <= repeat; iter++ {
		start := time.Now()
		for i := 0; i < updatesPerIter; i++ {
			updates, _, _ := source.Next()
			for _, u := range updates {
				engine.UpdateHint(u.Index, u.Delta)
			}
		}
		duration := time.Since(start)
		nsPerUpdate := float64(duration.Nanoseconds()) / float64(updatesPerIter)
		fmt.Printf("update iteration %3d: %9s total (%.2f ns/update)\n", iter, duration, nsPerUpdate)

		if duration < min {
			min = duration
		}
		if duration > max {
			max = duration
		}
		total += duration
	}

	avg := total / time.Duration(repeat)
	fmt.Println("----------------------------------------")
	fmt.Printf("updates: avg=%s min=%s max=%s (%.2f ns/update avg)\n",
		avg, min, max, float64(avg.Nanoseconds())/float64(updatesPerIter))
}

func runQueryBenchmark(engine *hintengine.Engine, n, w uint64) {
	c := n / w
	const samples = 500

	start := time.Now()
	hits := 0
	for i := 0; i < samples; i++ {
		alpha := uint64(i) % c
		beta := uint64(i*7) % w
		if _, ok := engine.GetHint(alpha, beta); ok {
			hits++
		}
	}
	duration := time.Since(start)
	fmt.Println("----------------------------------------")
	fmt.Printf("queries: %d samples, %d hints returned, %.2f ns/query\n",
		samples, hits, float64(duration.Nanoseconds())/float64(samples))
}
