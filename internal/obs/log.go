// Package obs carries the service-wide observability pieces: the shared
// JSON-line logger and the Prometheus metrics for HTTP traffic, login
// attempts and two-factor verifications.
//
// Every log line is a single JSON object. Request lines carry
// request_id, method, path, status and duration_ms; the audit op-log
// adds event and user_id on top of the same format.
package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the shared structured logger used across the service.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// LogRequest emits one JSON log line from the given fields.
func LogRequest(entry map[string]any) {
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Printf(`{"level":"error","msg":"log_marshal_failed","error":%q}`, err.Error())
		return
	}
	Logger().Println(string(data))
}
