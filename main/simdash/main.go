package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jd3nn1s/simdash"
	"github.com/jd3nn1s/simdash/forwarder"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

var configFile = flag.StringP("config", "c", "simdash.toml", "configuration file, relative to the binary unless absolute")
var testMode = flag.Bool("testmode", false, "generate test data")
var printTelemetry = flag.Bool("print-telemetry", false, "print payloads to stdout")
var debug = flag.Bool("debug", false, "enable debug logging")

type startable interface {
	Start(ctx context.Context) error
	Name() string
}

func main() {
	flag.Parse()
	log.SetLevel(log.InfoLevel)
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := simdash.LoadConfig(*configFile)
	if err != nil {
		log.Fatal("unable to load configuration: ", err)
	}

	sd := simdash.NewDash(config)
	if config.UDP != nil {
		fwder, err := forwarder.NewUDPForwarderFromConfig(config.UDP)
		if err != nil {
			log.Fatal("unable to load UDP forwarder: ", err)
		}
		defer fwder.Close()
		run(ctx, fwder)
		sd.AddForwarder(fwder)
	}
	if config.WebSocket != nil {
		fwder := forwarder.NewWebSocketForwarder(config.WebSocket)
		run(ctx, fwder)
		sd.AddForwarder(fwder)
	}
	sd.SetTestMode(*testMode)
	sd.Start(ctx)

	for ctx.Err() == nil {
		changed := sd.CheckChannels(ctx)
		if changed {
			if *printTelemetry {
				fmt.Println(string(sd.Payload))
			}
			sd.TelemetryUpdate()
		}
	}
	log.Info("shutting down")
}

func run(ctx context.Context, s startable) {
	go func() {
		if err := s.Start(ctx); err != nil && ctx.Err() == nil {
			log.WithField("forwarder", s.Name()).Error("forwarder stopped ", err)
		}
	}()
}
