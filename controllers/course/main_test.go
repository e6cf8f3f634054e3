package controllers

import (
	"os"
	"testing"

	"lms/config"
)

func TestMain(m *testing.M) {
	config.LoadConfig()
	os.Exit(m.Run())
}
