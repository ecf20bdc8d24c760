// Package http provides the testbed HTTP server.
//
// The server is described by a route table (see Handler.Routes). Each entry names
// its method, path pattern, handler and the middleware placed in front of it,
// so the policy applied to each route can be inspected without starting a server.
//
// # Routes
//
//	GET  /login       basic auth, responds "Hello, <user>!"
//	GET  /rate_limit  limited per client IP, logs the client address
//	POST /test        logs a fixed message
//	GET  /file        serves the default asset
//	GET  /file/*      serves an asset below the static root
//	GET  /html        renders index.html
//	GET  /fail500     always 500
//	GET  /fail        status and body taken from the error and msg query parameters
//
// A global rate limit applies to every route, including unknown paths.
//
// # Usage
//
//	store, _ := keybackend.NewCredentialStore(usersCfg)
//	renderer, _ := http.NewRenderer(http.DefaultTemplates())
//
//	handler := http.NewHandler(&http.HandlerConfig{
//	    DefaultAsset:  "img/sand.jpg",
//	    GlobalLimiter: ratelimit.New(globalPolicies),
//	    RouteLimiter:  ratelimit.New(routePolicies),
//	}, http.Services{
//	    Users:     store,
//	    Assets:    filesystem.NewAssetStore(root),
//	    Templates: renderer,
//	    Hits:      testbed.NewHitLog(os.Stdout, nil),
//	})
//	http.ListenAndServe(":5050", handler.Router())
package http
