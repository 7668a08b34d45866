package config

import (
	"os"
	"testing"
	"time"

	"equationpoker-server/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("EQP_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("EQP_MAX_PLAYERS", "4")
	defer clear2()

	config.loaded = false
	a := assert.New(t)
	cfg := Instance()
	a.Equal("postgres://postgres@localhost:5432/equationpoker?sslmode=disable", cfg.PGDSN)
	a.Equal(500, cfg.StartingChips)
	a.Equal(4, cfg.MaxPlayers)
	a.Equal(250*time.Millisecond, cfg.BotDelay())
	a.Equal("debug", cfg.Log.Level)
	a.True(cfg.Log.DisableAccessLogs)
	a.Equal([]string{"https://equationpoker.example"}, cfg.AllowedOrigins)

	// defaults survive a partial file
	a.Equal("./sql", cfg.MigrationsPath)
	a.Equal(time.Duration(0), cfg.SwapTimeout())

	// ensure that it's only loaded once
	_ = os.Setenv("EQP_MAX_PLAYERS", "6")
	// ensure we aren't using a pointer
	cfg.MaxPlayers = 99
	cfg = Instance()
	a.Equal(4, cfg.MaxPlayers)
}

func TestDefaults(t *testing.T) {
	clear1 := util.SetEnv("EQP_CONFIG_FILE", "testdata/missing.yaml")
	defer clear1()
	clear2 := util.SetEnv("EQP_SWAP_TIMEOUT_SECONDS", "30")
	defer clear2()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal(1000, cfg.StartingChips)
	a.Equal(8, cfg.MaxPlayers)
	a.Equal(time.Second, cfg.BotDelay())
	a.Equal(30*time.Second, cfg.SwapTimeout())
	a.Empty(cfg.PGDSN)
}

func TestLoad_InvalidFile(t *testing.T) {
	clear1 := util.SetEnv("EQP_CONFIG_FILE", "testdata")
	defer clear1()

	assert.Error(t, Load())
}
