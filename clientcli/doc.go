// Package clientcli provides a client library for driving testbed servers.
//
// It wraps the server's endpoints (login, rate_limit, test, file, html, fail)
// and adds a burst mode that fires many requests concurrently and tallies the
// status codes, which is the usual way to watch a rate limit trip.
//
// # Basic Usage
//
// Create a client and check credentials:
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:5050",
//		Username: "admin",
//		Password: "password",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.Login(ctx)
//
// # Profiles
//
// A profile names a server and carries its credentials and the burst to fire
// at it by default:
//
//	profiles, err := clientcli.LoadProfiles(clientcli.DefaultProfilesPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	staging, err := profiles.Lookup("staging")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(staging.Config())
//	burst, err := client.Burst(ctx, staging.Burst())
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatBurst(os.Stdout, burst)
package clientcli
