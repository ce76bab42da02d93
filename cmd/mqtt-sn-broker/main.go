// Command mqtt-sn-broker is the core's CLI entrypoint (§6): a single
// positional argument gives the UDP listen address, defaulting to
// 0.0.0.0:60000. It follows the teacher's cmd/mqtt-server/main.go shape
// — a -config flag feeding a package-level CONFIG, one errgroup
// supervising every long-running listener — retargeted at UDP-only
// MQTT-SN instead of MQTT-over-TCP/TLS/WS.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	mqttsn "github.com/mqtt-sn/broker"
	"github.com/mqtt-sn/broker/internal/admin"
	"github.com/mqtt-sn/broker/internal/gwadvert"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	configPath := flag.String("config", "", "path to a JSON config file (optional)")
	flag.Parse()

	if *configPath != "" {
		b, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("mqtt-sn: read config: %v", err)
		}
		if err := json.Unmarshal(b, mqttsn.CONFIG); err != nil {
			log.Fatalf("mqtt-sn: parse config: %v", err)
		}
	}

	addr := mqttsn.CONFIG.UDP.URL
	if flag.NArg() > 0 {
		addr = flag.Arg(0)
	}

	store, err := mqttsn.NewStoreFromConfig()
	if err != nil {
		log.Fatalf("mqtt-sn: conn store: %v", err)
	}
	broker := mqttsn.NewBroker(mqttsn.WithStore(store))

	group, ctx := errgroup.WithContext(context.Background())

	group.Go(func() error {
		return broker.ListenAndServe(addr)
	})

	group.Go(func() error {
		if mqttsn.CONFIG.HTTP.URL == "" {
			return nil
		}
		return admin.ListenAndServe(mqttsn.CONFIG.HTTP.URL)
	})

	group.Go(func() error {
		<-ctx.Done()
		return broker.Shutdown()
	})

	if mqttsn.CONFIG.GatewayAdvertise {
		group.Go(func() error {
			adv := gwadvert.New(mqttsn.CONFIG.GatewayID, addr)
			return adv.Run(ctx.Done())
		})
	}

	if err := group.Wait(); err != nil {
		log.Fatal(err)
	}
}
