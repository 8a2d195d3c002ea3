// Command zigpod loads a disk image and runs the PP5021C emulator core,
// either headless for a fixed number of frames or interactively through
// the terminal frontend, mirroring cmd/jeebie/main.go's flag style.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/Davidslv/zigpod-sub003/config"
	"github.com/Davidslv/zigpod-sub003/frontend"
	"github.com/Davidslv/zigpod-sub003/zigpod"
	"github.com/Davidslv/zigpod-sub003/zigpod/ata"
	"github.com/Davidslv/zigpod-sub003/zigpod/cpu"
	"github.com/Davidslv/zigpod-sub003/zigpod/disk"
)

func main() {
	app := cli.NewApp()
	app.Name = "zigpod"
	app.Description = "A cycle-counted PP5021C (iPod 5th-gen) emulator core"
	app.Usage = "zigpod [options]"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "disk", Usage: "Path to a raw ATA disk image"},
		cli.BoolFlag{Name: "headless", Usage: "Run without the terminal frontend"},
		cli.IntFlag{Name: "frames", Usage: "Number of frames to run in headless mode", Value: 60},
		cli.IntFlag{Name: "mhz", Usage: "ARM7TDMI clock speed in MHz", Value: 80},
		cli.IntFlag{Name: "sdram-mb", Usage: "SDRAM size in MiB (stored in the config; the bus always allocates 32 MiB)", Value: 32},
		cli.BoolFlag{Name: "remap", Usage: "Install the boot-time IRAM remap before running"},
		cli.StringFlag{Name: "log-level", Usage: "debug, info, warn, or error", Value: "info"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("zigpod exited with error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.FromFlags(c)

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})
	slog.SetDefault(slog.New(handler))

	backend, err := openDisk(cfg.DiskPath)
	if err != nil {
		return err
	}

	emu := zigpod.New(backend)
	emu.SetCPUFreqMHz(cfg.CPUFreqMHz)
	emu.SetCPU(cpu.NewARMStub())

	if cfg.RemapOnBoot {
		if err := emu.Bus().SetRemap(0, 0, 0, 0x1000); err != nil {
			return fmt.Errorf("install boot remap: %w", err)
		}
	}

	if cfg.Headless {
		return runHeadless(emu, cfg.Frames)
	}

	term, err := frontend.NewTerminal(emu)
	if err != nil {
		return err
	}
	return term.Run()
}

func openDisk(path string) (ata.Disk, error) {
	if path == "" {
		slog.Info("no --disk given, using a 64 MiB RAM-backed disk")
		return disk.NewRam(64 * 1024 * 1024 / 512), nil
	}
	d, err := disk.OpenRawFile(path)
	if err != nil {
		return nil, fmt.Errorf("open disk: %w", err)
	}
	return d, nil
}

func runHeadless(emu *zigpod.Emulator, frames int) error {
	if frames <= 0 {
		return errors.New("headless mode requires --frames with a positive value")
	}
	for i := 0; i < frames; i++ {
		if err := emu.RunFrame(); err != nil {
			return fmt.Errorf("run frame %d: %w", i, err)
		}
		if i%10 == 0 {
			slog.Info("frame progress", "completed", i, "total", frames)
		}
	}
	slog.Info("headless run completed", "frames", frames, "instructions", emu.InstructionCount())
	return nil
}
