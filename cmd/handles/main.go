package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/halcyon-os/userland/handle"
	"github.com/halcyon-os/userland/sys"
)

func main() {
	var (
		files       = flag.String("files", "/etc/motd,/var/log/kern", "Files to open (comma-separated)")
		threads     = flag.Int("threads", 4, "Threads resolving the shared handle")
		verbose     = flag.Bool("v", false, "Log handle lifecycle events")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		handle.SetLogger(log)
		handle.SetObserver(handle.NewLogObserver(log))
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(strings.Split(*files, ","), *threads); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(paths []string, threads int) error {
	kern := sys.NewLocal()

	devID := uuid.New()
	kern.AddDevice(devID, "null0")

	// Exclusive ownership: open, borrow, destroy.
	fmt.Printf("Opening %d files...\n", len(paths))
	var owned []*handle.Owned[handle.File]
	for _, p := range paths {
		f, err := handle.OpenFile(kern, strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("open %s: %w", p, err)
		}
		owned = append(owned, f)

		// Borrows upcast to the generic stream view without a kernel call.
		io := handle.UpcastIO(f.Borrow())
		fmt.Printf("  %s -> %v (as stream: %v)\n", p, f.Ptr(), io.Ptr())
	}

	dev, err := handle.OpenDevice(kern, devID)
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	fmt.Printf("  device null0 -> %v\n", dev.Ptr())
	dev.Close()

	// Cross-thread sharing: one token, one upgrade call per thread.
	first := owned[0]
	shared, err := handle.Share(first)
	if err != nil {
		return fmt.Errorf("share: %w", err)
	}
	fmt.Printf("\nShared file as token %d\n", shared.Token())

	var wg sync.WaitGroup
	results := make([]string, threads)
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			// First access pays the upgrade; the second is cached.
			p, err := shared.Get()
			if err != nil {
				results[n] = fmt.Sprintf("thread %d: %v", n, err)
				return
			}
			again, _ := shared.Get()
			results[n] = fmt.Sprintf("thread %d: resolved %v (cached: %v)", n, p, again == p)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		fmt.Println("  " + r)
	}
	shared.Close()

	for _, f := range owned[1:] {
		f.Close()
	}

	fmt.Printf("\nLive handles at exit: %d\n", kern.Live())
	return nil
}
