package endpoints

import (
	"github.com/zappay/zappay-backend/pkg/server"
)

// RegisterAll registers all endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
}
