package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/zappay/zappay-backend/pkg/db"
	"github.com/zappay/zappay-backend/pkg/server"
	"github.com/zappay/zappay-backend/pkg/server/endpoints"
	gormstore "github.com/zappay/zappay-backend/pkg/server/store/gorm"
)

// portCounter is used to allocate unique ports for each test server
var portCounter int32 = 19000

// ServerInstance represents a status server running for a single scenario
type ServerInstance struct {
	Server    *server.Server
	ServerURL string
	done      chan error
}

// StartServer starts an in-process status server backed by handle
func StartServer(handle *db.Handle) (*ServerInstance, error) {
	port := strconv.Itoa(int(atomic.AddInt32(&portCounter, 1)))

	s := server.NewServer(gormstore.NewHealthStore(handle), "127.0.0.1", port)
	endpoints.RegisterAll(s)

	done := make(chan error, 1)
	go func() {
		done <- s.Start()
	}()

	instance := &ServerInstance{
		Server:    s,
		ServerURL: "http://127.0.0.1:" + port,
		done:      done,
	}
	if err := waitForServer(instance.ServerURL, 10*time.Second); err != nil {
		_ = instance.Stop()
		return nil, err
	}
	return instance, nil
}

// Stop shuts the server down
func (si *ServerInstance) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := si.Server.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-si.done; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}
