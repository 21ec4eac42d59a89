// Logs in against a running local server and prints the issued token.
//
// Usage: go run ./cmd/debug/smoke_login -user admin -pass secret
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"net/http"

	"github.com/mediashare-services/common/logger"
)

func main() {
	base := flag.String("base", "http://localhost:8080", "server base URL")
	user := flag.String("user", "admin", "username")
	pass := flag.String("pass", "", "password")
	flag.Parse()

	payload, _ := json.Marshal(map[string]string{
		"username": *user,
		"password": *pass,
	})

	resp, err := http.Post(*base+"/auth/token", "application/json", bytes.NewReader(payload))
	if err != nil {
		logger.Fatal("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	logger.Info("status=%d body=%s", resp.StatusCode, body)
}
