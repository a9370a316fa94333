package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  name: shop-service
  port: 50061
database:
  driver: postgres
  host: db.local
  port: 5432
  username: shop
  password: secret
  database: shop
auth:
  jwt_secret: test-secret
log:
  level: debug
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 50061, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Gateway.Port)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "order.events", cfg.RabbitMQ.Exchange)
	assert.Equal(t, "host=db.local port=5432 user=shop password=secret dbname=shop sslmode=disable", cfg.Database.DSN())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SHOP_DATABASE_PASSWORD", "from-env")
	t.Setenv("SHOP_GATEWAY_PORT", "9090")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 9090, cfg.Gateway.Port)
}

func TestLoadValidation(t *testing.T) {
	_, err := Load(writeConfig(t, "database:\n  driver: sqlite\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
	assert.Contains(t, err.Error(), "auth.jwt_secret")
}

func TestMySQLDSN(t *testing.T) {
	c := DatabaseConfig{Driver: "mysql", Host: "localhost", Port: 3306, Username: "root", Password: "pw", Database: "shop"}
	assert.Equal(t, "root:pw@tcp(localhost:3306)/shop?charset=utf8mb4&parseTime=True&loc=Local", c.DSN())
}
