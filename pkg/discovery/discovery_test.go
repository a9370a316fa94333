package discovery

import (
	"testing"

	"github.com/example/retailshop/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstance(t *testing.T) {
	inst, err := ParseInstance("shop-service", "10.0.0.7:50051")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", inst.Host)
	assert.Equal(t, 50051, inst.Port)
	assert.Equal(t, "10.0.0.7:50051", inst.Addr())

	_, err = ParseInstance("shop-service", "10.0.0.7")
	assert.Error(t, err)
	_, err = ParseInstance("shop-service", "host:http")
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	sd := &ServiceDiscovery{config: &config.EtcdConfig{Prefix: "/services/"}}
	key := sd.key(&ServiceInstance{Name: "shop-service", Host: "::1", Port: 50051})
	assert.Equal(t, "/services/shop-service/[::1]:50051", key)
}
