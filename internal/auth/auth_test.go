package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wedding-memories/internal/apperr"
)

func TestGateCheck(t *testing.T) {
	g := NewGate("s3cret")
	assert.True(t, g.Enabled())
	assert.NoError(t, g.Check("s3cret"))
	assert.ErrorIs(t, g.Check("S3cret"), apperr.Unauthorized)
	assert.ErrorIs(t, g.Check(""), apperr.Unauthorized)
	assert.ErrorIs(t, g.Check("s3cret "), apperr.Unauthorized)
}

func TestGateWithoutSecretDeniesAll(t *testing.T) {
	g := NewGate("")
	assert.False(t, g.Enabled())
	assert.ErrorIs(t, g.Check(""), apperr.Unauthorized)
	assert.ErrorIs(t, g.Check("anything"), apperr.Unauthorized)
}
