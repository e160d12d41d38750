package service

import (
	"io"
	"log/slog"
	"time"

	"hackathon_hub/internal/common/security"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSessions() *security.SessionAuth {
	return security.NewSessionAuth([]byte("test-secret"), time.Hour, false)
}
