// Package server serves page documents rendered through an Enhancer.
//
// Every GET request maps to a page file: "/" serves index.html, "/about"
// serves about.html or about/index.html. The page is rendered on each
// request, so element and state changes show up without a restart.
//
// # Routes
//
//   - GET /metrics: Prometheus metrics, when enabled
//   - GET /_enhance/reload: live reload WebSocket, in dev mode
//   - GET /*: rendered pages
//
// # Usage
//
//	e, _ := enhance.New(enhance.WithElements(reg))
//	srv := server.New(e, &server.Config{
//	    Address: "localhost:3000",
//	    Pages:   os.DirFS("pages"),
//	    Metrics: true,
//	})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// An Enhancer is not safe for concurrent renders, so the server renders one
// page at a time. Use SetEnhancer to swap in a rebuilt Enhancer, for example
// after the state file changes.
package server
