package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/qpra-project/qpracore/internal/core"
)

const hostFrameRate = 60

var (
	runPaletteFlag    string
	runSaveFlag       string
	runFramesFlag     int
	runStatusInterval = time.Second
)

// runCmd drives the qpracore system at its fixed 60fps rate until the
// requested frame count elapses or the process receives SIGINT/SIGTERM.
var runCmd = &cobra.Command{
	Use:   "run path/to/rom",
	Short: "run a cartridge image through the qpracore system",
	Args:  cobra.ExactArgs(1),
	Run:   runCart,
}

func init() {
	runCmd.Flags().StringVar(&runPaletteFlag, "palette", "", "path to a 256-entry RGB palette file")
	runCmd.Flags().StringVar(&runSaveFlag, "save", "", "path to a persistent-storage save file (loaded at start, written at exit)")
	runCmd.Flags().IntVar(&runFramesFlag, "frames", 0, "stop after this many frames (0 = run until interrupted)")
}

func runCart(cmd *cobra.Command, args []string) {
	sys, cart, err := loadSystem(args[0], runPaletteFlag, runSaveFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	frames := make(chan int, 1)

	g.Go(func() error {
		defer stop() // cancels ctx so the status goroutine returns too
		return driveSystem(ctx, sys, runFramesFlag, frames)
	})
	g.Go(func() error { return printStatusLine(ctx, frames) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, err)
	}

	if runSaveFlag != "" {
		if err := savePersistent(cart, runSaveFlag); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// driveSystem steps the system one frame's worth of cycles per tick of a
// 60Hz ticker, reporting the completed frame count on frames after each
// tick. The emulation loop itself never spans more than one goroutine;
// only the host's ticking and status reporting are concurrent.
func driveSystem(ctx context.Context, sys *core.System, maxFrames int, frames chan<- int) error {
	ticker := time.NewTicker(time.Second / hostFrameRate)
	defer ticker.Stop()

	count := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for i := 0; i < core.CyclesPerFrame; i++ {
				sys.StepCycle()
			}
			count++
			select {
			case frames <- count:
			default:
			}
			if maxFrames > 0 && count >= maxFrames {
				return nil
			}
		}
	}
}

// printStatusLine prints the running frame count once a second, fit to the
// terminal width when stdout is a real terminal.
func printStatusLine(ctx context.Context, frames <-chan int) error {
	ticker := time.NewTicker(runStatusInterval)
	defer ticker.Stop()

	latest := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-frames:
			latest = f
		case <-ticker.C:
			fmt.Fprint(os.Stderr, statusLine(latest)+"\r")
		}
	}
}

func statusLine(frame int) string {
	line := fmt.Sprintf("frame %d", frame)
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return line
	}
	if len(line) >= width {
		return line[:width]
	}
	return line + strings.Repeat(" ", width-len(line))
}

func loadSystem(romPath, palettePath, savePath string) (*core.System, *core.Cart, error) {
	romData, err := os.ReadFile(romPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading rom: %w", err)
	}
	cart, err := core.LoadROM(romData)
	if err != nil {
		return nil, nil, fmt.Errorf("loading rom: %w", err)
	}

	var palette *core.Palette
	if palettePath != "" {
		palData, err := os.ReadFile(palettePath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading palette: %w", err)
		}
		palette, err = core.LoadPalette(palData)
		if err != nil {
			return nil, nil, fmt.Errorf("loading palette: %w", err)
		}
	}

	if savePath != "" {
		if f, err := os.Open(savePath); err == nil {
			err = cart.LoadPersistent(f)
			f.Close()
			if err != nil {
				return nil, nil, fmt.Errorf("loading save file: %w", err)
			}
		}
	}

	sys := core.NewSystem(cart, palette)
	sys.Reset()
	return sys, cart, nil
}

func savePersistent(cart *core.Cart, savePath string) error {
	f, err := os.Create(savePath)
	if err != nil {
		return fmt.Errorf("creating save file: %w", err)
	}
	defer f.Close()
	if err := cart.SavePersistent(f); err != nil {
		return fmt.Errorf("writing save file: %w", err)
	}
	return nil
}
