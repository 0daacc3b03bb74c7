// Package server provides the HTTP status server for the ZapPay backend.
//
// It uses gorilla/mux for routing and logs every request in Apache
// combined format. Handlers are registered by the endpoints subpackage:
//
//	srv := server.NewServer(gormstore.NewHealthStore(handle), "0.0.0.0", "8080")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
//	    return err
//	}
//
// # Endpoints
//
//   - GET / - Service banner
//   - GET /status - Database connectivity
package server
