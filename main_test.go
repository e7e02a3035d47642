package main

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestListen_FailureSignalsShutdown(t *testing.T) {
	server := fiber.New(fiber.Config{DisableStartupMessage: true})
	quit := make(chan os.Signal, 1)

	go listen(server, "invalid-address", quit)

	select {
	case sig := <-quit:
		assert.Equal(t, syscall.SIGTERM, sig)
	case <-time.After(5 * time.Second):
		t.Fatal("listen failure did not signal shutdown")
	}
}
