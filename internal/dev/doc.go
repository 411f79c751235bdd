// Package dev provides element watching and browser live reload for
// `enhance serve --dev`.
//
// This package implements:
//   - File watching of element templates, pages and the state file (fsnotify)
//   - Registry reload when templates change
//   - WebSocket-based browser refresh
//   - Error overlay in the browser when a template fails to compile
//
// # Usage
//
//	live, err := dev.NewLive(dev.LiveOptions{
//	    Paths:  dev.CollectWatchPaths(cfg),
//	    Reload: func() error { return reloadRegistry() },
//	})
//	go live.Start(ctx)
//	r.Get(dev.ReloadPath, live.HandleWebSocket)
//
// # Live Reload Protocol
//
// The browser connects to /_enhance/reload via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "reload"}                // Triggers full page reload
//	{"type": "css"}                   // Triggers stylesheet reload
//	{"type": "error", "error": "..."} // Shows error overlay
//	{"type": "clear"}                 // Clears error overlay
package dev
