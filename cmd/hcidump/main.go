package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tjrong/hcicore"
	"github.com/tjrong/hcicore/internal/logging"
	"github.com/tjrong/hcicore/transport/uart"
)

func main() {
	var (
		device  = flag.String("device", "/dev/ttyUSB0", "UART device node the controller is attached to")
		verbose = flag.Bool("v", false, "verbose logging")
		timeout = flag.Duration("timeout", 5*time.Second, "bring-up timeout")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	cfg := hcicore.DefaultConfig()
	cfg.Logger = logger
	stack := hcicore.New(cfg)

	transport := uart.New(*device, stack)
	if err := stack.RegisterDriver(transport); err != nil {
		logger.Error("failed to register transport", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		stack.Close()
		os.Exit(0)
	}()

	logger.Info("bringing up controller", "device", *device)
	if err := stack.Init(ctx); err != nil {
		logger.Error("bring-up failed", "error", err)
		os.Exit(1)
	}
	defer stack.Close()

	addr := stack.State.BDAddr()
	version, revision, manufacturer := stack.State.HCIVersion()
	leMTU, lePkts := stack.State.LEBufferSize()

	fmt.Printf("BD_ADDR:       %02x:%02x:%02x:%02x:%02x:%02x\n",
		addr[5], addr[4], addr[3], addr[2], addr[1], addr[0])
	fmt.Printf("HCI version:   %d (revision %d)\n", version, revision)
	fmt.Printf("Manufacturer:  %#04x\n", manufacturer)
	fmt.Printf("LE buffers:    mtu=%d count=%d\n", leMTU, lePkts)
}
