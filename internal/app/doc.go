// Package app wires the web service together: configuration, logging,
// OpenTelemetry, the dataset store, the memo cache, the analytics and health
// services and the chi router.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, VITIS_* environment)
//	2. Initialize logging and OpenTelemetry
//	3. Open the csv or postgres store
//	4. Build the analytics service around a memo cache
//	5. Register middleware and routes
//	6. Create the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(ctx, nil, nil)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests, closes
// the store and flushes telemetry. The package never calls os.Exit.
package app
