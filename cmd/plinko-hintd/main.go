// Command plinko-hintd runs a demo Plinko hint-engine node: it builds a
// HintEngine over a simulated or chain-following database, serves health
// and metrics over HTTP, answers queries against its own hint state for
// demonstration purposes, and periodically persists and publishes a
// snapshot of the engine's parity state.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"time"

	"plinkopir/internal/config"
	"plinkopir/internal/hintengine"
	"plinkopir/internal/ingest"
	"plinkopir/internal/metrics"
	"plinkopir/internal/snapshot"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Printf("plinko-hintd starting (n=%d w=%d lambda=%d q=%d simulated=%v)", cfg.N, cfg.W, cfg.Lambda, cfg.Q, cfg.UseSimulated)

	engine, err := hintengine.New(cfg.N, cfg.W, cfg.Lambda, cfg.Q, cfg.MasterKey)
	if err != nil {
		log.Fatalf("hintengine: %v", err)
	}

	collector := metrics.New()

	publisher, err := snapshot.NewIPFSPublisher(cfg.IPFSAPI, cfg.IPFSGateway)
	if err != nil {
		log.Printf("ipfs publisher disabled: %v", err)
	}
	if publisher != nil {
		log.Printf("IPFS publishing enabled (api=%s)", cfg.IPFSAPI)
	}

	go func() {
		log.Printf("health server listening on :%s", cfg.HealthPort)
		if err := http.ListenAndServe(":"+cfg.HealthPort, collector.Handler()); err != nil {
			log.Printf("health server error: %v", err)
		}
	}()

	// next yields the upcoming batch of database updates; the two source
	// kinds differ in how they're driven (the chain follower blocks on RPC
	// and needs a context), so both are reduced to the same closure shape.
	var next func() ([]ingest.Update, bool, error)

	if cfg.UseSimulated {
		source := ingest.NewSimulatedSource(cfg.N, int(cfg.W))
		streamDatabase(engine, collector, source.InitialDatabase())
		next = source.Next
	} else {
		client, err := ingest.DialEthereumClient(cfg.RPCURL, cfg.RPCToken)
		if err != nil {
			log.Fatalf("dial rpc: %v", err)
		}
		defer client.Close()

		addressMap, err := ingest.LoadAddressMapping(cfg.AddressMapPath)
		if err != nil {
			log.Fatalf("load address mapping: %v", err)
		}
		log.Printf("loaded %d address mappings", len(addressMap))

		db, err := ingest.LoadDatabase(cfg.DatabasePath, cfg.N)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Fatalf("load database: %v", err)
			}
			log.Printf("no database at %s, starting from zeros", cfg.DatabasePath)
			db = make([]hintengine.Parity, cfg.N)
		}
		streamDatabase(engine, collector, db)

		ethSource, err := ingest.NewEthBlockSource(context.Background(), client, addressMap, db, cfg.StartBlock)
		if err != nil {
			log.Fatalf("eth source: %v", err)
		}
		next = func() ([]ingest.Update, bool, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return ethSource.Next(ctx)
		}
	}

	collector.SetReady(true)
	log.Printf("initial hint build complete: %+v", engine.GetStats())

	if err := publishSnapshot(cfg, engine, publisher); err != nil {
		log.Printf("initial snapshot failed: %v", err)
	} else {
		collector.RecordSnapshot()
	}

	ticker := time.NewTicker(cfg.SnapshotInterval)
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ticker.C:
			if err := publishSnapshot(cfg, engine, publisher); err != nil {
				log.Printf("snapshot failed: %v", err)
				continue
			}
			collector.RecordSnapshot()
			log.Printf("published snapshot: %+v", engine.GetStats())

		default:
			updates, ok, err := next()
			if err != nil {
				log.Printf("ingest error: %v", err)
				time.Sleep(cfg.PollInterval)
				continue
			}
			if !ok {
				time.Sleep(cfg.PollInterval)
				continue
			}

			start := time.Now()
			for _, u := range updates {
				engine.UpdateHint(u.Index, u.Delta)
			}
			collector.RecordUpdate(time.Since(start))

			tick++
			if tick%1000 == 0 {
				demoQuery(engine, collector)
			}
		}
	}
}

// streamDatabase feeds the initial database through the engine's streaming
// build, counting each entry.
func streamDatabase(engine *hintengine.Engine, collector *metrics.Collector, db []hintengine.Parity) {
	for i, v := range db {
		engine.ProcessEntry(uint64(i), v)
		collector.RecordEntry()
	}
}

// demoQuery exercises GetHint/ConsumeHint against the running engine so
// the hint lifecycle (promotion, consumed tracking) is visibly active in a
// long-running demo process rather than sitting idle.
func demoQuery(engine *hintengine.Engine, collector *metrics.Collector) {
	start := time.Now()
	plan, ok := engine.GetHint(0, 0)
	if !ok {
		return
	}
	engine.ConsumeHint(plan.HintIdx, 0, plan.Parity)
	collector.RecordQuery(time.Since(start))
}

func publishSnapshot(cfg config.Config, engine *hintengine.Engine, publisher *snapshot.IPFSPublisher) error {
	payload := engine.ToBytes()
	_, err := snapshot.Publish(cfg.PublicRoot, cfg.SnapshotVersion, payload, cfg.N, cfg.W, cfg.Lambda, cfg.Q, publisher)
	return err
}
