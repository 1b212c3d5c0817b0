package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogMiddleware(t *testing.T) {
	var buf bytes.Buffer

	// кастомный логгер, пишет в буфер
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(&buf),
		zapcore.DebugLevel,
	)
	logger := zap.New(core).Sugar()

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("{}"))
	rr := httptest.NewRecorder()

	handler := LogMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("response"))
	}))

	handler.ServeHTTP(rr, req)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "POST") {
		t.Error("log is missing the request method")
	}
	if !strings.Contains(logOutput, "/test") {
		t.Error("log is missing the request URI")
	}
	if !strings.Contains(logOutput, "201") {
		t.Error("log is missing the response status")
	}
}
