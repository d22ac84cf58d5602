// dolserve is the local preview server for the dol web demos. It serves the
// working directory on a fixed port with the MIME table extended so WASM
// and JS module files load correctly in the browser.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/univrs/dol/internal/server"
)

// Hard-coded on purpose: this is a development convenience, not a
// production server.
const port = 8080

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Port:       port,
		Dir:        ".",
		LiveReload: true,
	})

	fmt.Printf("🌍 Serving at http://localhost:%d\n", port)
	fmt.Println("Press Ctrl+C to stop")

	if err := srv.Run(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✅ Stopped.")
}
