// Package app wires the launch dashboard together and manages its lifecycle.
//
// NewApplication loads the dataset, builds the binding dispatcher, the
// services, the WebSocket hub and the chi router. Serve and Run start the
// hub and the HTTP server under an errgroup and shut both down when the
// context is cancelled:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	a, err := app.NewApplication(ctx, cfg, logger)
//	if err != nil {
//		return err
//	}
//	return a.Run(ctx)
//
// Initialization errors are returned to the caller; the package never
// calls os.Exit.
package app
