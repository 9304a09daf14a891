package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_Defaults(t *testing.T) {
	cx := NewContext()

	assert.Equal(t, "no campaign loaded", cx.Name())
	assert.Empty(t, cx.RunID())
	assert.True(t, cx.Started().IsZero())

	attrs := cx.Attrs()
	assert.Len(t, attrs, 1)
	assert.Equal(t, "campaign", attrs[0].Key)
}

func TestContext_SetCampaign(t *testing.T) {
	cx := NewContext()
	cx.SetCampaign("hornsea-south", "20260830T120000")

	assert.Equal(t, "hornsea-south", cx.Name())
	assert.Equal(t, "20260830T120000", cx.RunID())
	assert.False(t, cx.Started().IsZero())

	attrs := cx.Attrs()
	assert.Len(t, attrs, 2)
	assert.Equal(t, "hornsea-south", attrs[0].Value.String())
	assert.Equal(t, "20260830T120000", attrs[1].Value.String())
}
