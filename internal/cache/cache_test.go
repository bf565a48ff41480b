package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/layeredcontracts/internal/pipeline"
)

func TestFingerprintDiffersOnThresholdChange(t *testing.T) {
	a := pipeline.DefaultConfig()
	b := pipeline.DefaultConfig()
	b.ModalScope.ReviewConfidenceThreshold = 0.9

	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprintStableForIdenticalConfig(t *testing.T) {
	a := pipeline.DefaultConfig()
	b := pipeline.DefaultConfig()

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestKeyDiffersOnTextChange(t *testing.T) {
	c := &Cache{prefix: "lc:"}
	cfg := pipeline.DefaultConfig()

	k1 := c.Key("Tenant shall pay rent.", cfg)
	k2 := c.Key("Tenant shall pay the deposit.", cfg)
	assert.NotEqual(t, k1, k2)
}

func TestKeyHasPrefix(t *testing.T) {
	c := &Cache{prefix: "lc:"}
	cfg := pipeline.DefaultConfig()

	k := c.Key("Tenant shall pay rent.", cfg)
	assert.Contains(t, k, "lc:")
	assert.Equal(t, "lc:", k[:3])
}

func TestIsClosedDefaultsFalse(t *testing.T) {
	c := &Cache{}
	assert.False(t, c.isClosed())
}
